package models

// BoxFilter represents the time window and bounding box of a query
type BoxFilter struct {
	StartTime int64   `form:"t0"`                   // Unix seconds
	EndTime   int64   `form:"t1" binding:"required"` // Unix seconds
	Lat0      float64 `form:"lat0"`                  // either corner, any order
	Lat1      float64 `form:"lat1"`
	Lon0      float64 `form:"lon0"`
	Lon1      float64 `form:"lon1"`
}

// ScanFilter represents parameters for a paginated scan
type ScanFilter struct {
	BoxFilter
	Entity  string `form:"entity"`  // entity layout only
	Layout  string `form:"layout"`  // geo, entity
	Compact bool   `form:"compact"` // 5-column CSV rows
	Limit   int    `form:"limit"`
	Cursor  string `form:"cursor"` // opaque, from a previous page
}

// RunFilter represents parameters for listing ingest runs
type RunFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

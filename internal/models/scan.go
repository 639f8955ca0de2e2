package models

import "time"

// KeyRange is a half-open [Start, End) scan over one index layout
type KeyRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Tile  string `json:"tile"` // geohash tile the range covers
}

// Layout selects which index a row key belongs to
type Layout string

// Layout constants
const (
	LayoutEntity Layout = "entity" // reverse(entity) + ts + seq
	LayoutGeo    Layout = "geo"    // reverse(geohash[:5]) + ts + entity + seq
)

// Valid reports whether l names a known layout.
func (l Layout) Valid() bool {
	return l == LayoutEntity || l == LayoutGeo
}

// ScanCell is one stored cell as returned by a range scan
type ScanCell struct {
	RowKey    string `json:"row_key" db:"row_key"`
	Qualifier string `json:"qualifier" db:"qualifier"` // location id
	Value     string `json:"value" db:"value"`         // typeCode|dur|subtype|lat|lon
	Timestamp int64  `json:"ts_ms" db:"ts_ms"`         // cell version, milliseconds
}

// DecodedRow is the structured form of a decoded scan cell
type DecodedRow struct {
	Entity    string `json:"entity"`
	Geohash   string `json:"geohash,omitempty"` // 5-char prefix, geo layout only
	Timestamp string `json:"ts"`
	Seq       string `json:"seq,omitempty"`
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
}

// IngestRun records one bulk-load invocation
type IngestRun struct {
	ID         string    `json:"id" db:"id"`
	Source     string    `json:"source" db:"source"`
	Lines      int64     `json:"lines" db:"lines"`
	Hops       int64     `json:"hops" db:"hops"`
	Loaded     int64     `json:"loaded" db:"loaded"`
	Rejected   int64     `json:"rejected" db:"rejected"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

// PlanResponse is the result of planning a box query
type PlanResponse struct {
	Ranges  []KeyRange `json:"ranges"`
	Count   int        `json:"count"`
	WidthM  float64    `json:"width_m"`
	HeightM float64    `json:"height_m"`
	AreaKm2 float64    `json:"area_km2"`
}

// ScanPage is one page of a scan. Rows is set for structured output
// and Lines for compact output.
type ScanPage struct {
	Layout Layout       `json:"layout"`
	Ranges int          `json:"ranges"`
	Rows   []DecodedRow `json:"rows,omitempty"`
	Lines  []string     `json:"lines,omitempty"`
	Next   string       `json:"next,omitempty"` // empty once every range is drained
}

// ParsedLine pairs an input line with its flattened hops
type ParsedLine struct {
	Line    string            `json:"line"`
	Type    string            `json:"type"`
	Records []FlattenedRecord `json:"records"`
}

// RunsResponse represents paginated ingest runs
type RunsResponse struct {
	Data       []IngestRun `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

package models

// Nil pointer fields mean the attribute was absent or failed to parse.

// RecordScalars holds the attributes shared by every hop of a record
type RecordScalars struct {
	Entity   string       `json:"entity"`             // normalized subscriber id
	IMEI     *string      `json:"imei,omitempty"`     // equipment id
	TnOrig   *string      `json:"tn_orig,omitempty"`  // originating number
	TnTerm   *string      `json:"tn_term,omitempty"`  // terminating number
	Type     LocationType `json:"type"`
	Subtype  *int64       `json:"subtype,omitempty"`  // method for NELOS, feed for CDRs, vendor for CLOSENUPH
	Cause    *int64       `json:"cause,omitempty"`    // final cause code
	CallType *int64       `json:"call_type,omitempty"`
	Use      *int64       `json:"use,omitempty"`
	VolUp    *int64       `json:"vol_up,omitempty"`
	VolDown  *int64       `json:"vol_down,omitempty"`
}

// Hop is one location contact within a record
type Hop struct {
	Location  *string   `json:"location,omitempty"` // raw cell or venue id
	Geohash   *string   `json:"geohash,omitempty"`
	Lat       *float64  `json:"lat,omitempty"`
	Lon       *float64  `json:"lon,omitempty"`
	Seq       *int64    `json:"seq,omitempty"`
	Timestamp *int64    `json:"ts,omitempty"`  // Unix seconds
	Duration  *int64    `json:"dur,omitempty"` // seconds
	Accuracy  *int64    `json:"acc,omitempty"` // meters
	Code      ParseCode `json:"-"`
	CodeName  string    `json:"code"`
}

// MultiHopRecord is the parsed form of one raw line. It always has at least one hop.
type MultiHopRecord struct {
	RecordScalars
	Hops []Hop `json:"hops"`
}

// FlattenedRecord is a single hop's view of a MultiHopRecord.
type FlattenedRecord struct {
	RecordScalars
	Hop
}

// Codes returns the per-hop classifications in hop order.
func (r *MultiHopRecord) Codes() []ParseCode {
	codes := make([]ParseCode, len(r.Hops))
	for i, h := range r.Hops {
		codes[i] = h.Code
	}
	return codes
}

// SetCode sets the classification of hop i, keeping CodeName in sync.
func (r *MultiHopRecord) SetCode(i int, code ParseCode) {
	r.Hops[i].Code = code
	r.Hops[i].CodeName = code.String()
}

// SetAllCodes sets every hop to code.
func (r *MultiHopRecord) SetAllCodes(code ParseCode) {
	for i := range r.Hops {
		r.SetCode(i, code)
	}
}

// Pointer helpers used when building records.

func Int(v int64) *int64 { return &v }

func Float(v float64) *float64 { return &v }

func String(v string) *string { return &v }

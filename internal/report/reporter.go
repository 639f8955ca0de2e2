package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// Dimension names one breakdown of a report
type Dimension string

// Report dimensions
const (
	DimErrors  Dimension = "errors"  // type x parse code
	DimTime    Dimension = "time"    // type x 15-minute bucket
	DimGeohash Dimension = "geohash" // type x 3-char geohash
)

// Dimensions lists every dimension in output order
var Dimensions = []Dimension{DimErrors, DimTime, DimGeohash}

// bucketSeconds is the width of a time bucket
const bucketSeconds = 15 * 60

// Row is one counted cell of a report
type Row struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type cell struct {
	typ string
	key string
}

// Reporter counts flattened records along every dimension. It is not
// safe for concurrent use; give each worker its own and Merge them.
type Reporter struct {
	counts map[Dimension]map[cell]int64
	total  int64
}

// New creates an empty reporter
func New() *Reporter {
	r := &Reporter{counts: make(map[Dimension]map[cell]int64, len(Dimensions))}
	for _, d := range Dimensions {
		r.counts[d] = make(map[cell]int64)
	}
	return r
}

// Add counts f. Missing timestamps or geohashes skip those dimensions.
func (r *Reporter) Add(f models.FlattenedRecord) {
	typ := f.Type.String()
	r.total++
	r.counts[DimErrors][cell{typ, f.Code.String()}]++

	if f.Timestamp != nil {
		bucket := strconv.FormatInt(*f.Timestamp/bucketSeconds, 10)
		r.counts[DimTime][cell{typ, bucket}]++
	}
	if f.Geohash != nil && len(*f.Geohash) >= 3 {
		r.counts[DimGeohash][cell{typ, (*f.Geohash)[:3]}]++
	}
}

// AddAll counts every record in records
func (r *Reporter) AddAll(records []models.FlattenedRecord) {
	for _, f := range records {
		r.Add(f)
	}
}

// Merge adds the counts of other into r
func (r *Reporter) Merge(other *Reporter) {
	if other == nil {
		return
	}
	r.total += other.total
	for d, m := range other.counts {
		for k, n := range m {
			r.counts[d][k] += n
		}
	}
}

// Total returns the number of records added
func (r *Reporter) Total() int64 {
	return r.total
}

// Count returns the count for (typ, key) in dimension d
func (r *Reporter) Count(d Dimension, typ, key string) int64 {
	return r.counts[d][cell{typ, key}]
}

// Rows returns the counts of d sorted by type, then key. Time buckets
// sort numerically.
func (r *Reporter) Rows(d Dimension) []Row {
	m := r.counts[d]
	rows := make([]Row, 0, len(m))
	for k, n := range m {
		rows = append(rows, Row{Type: k.typ, Key: k.key, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if d == DimTime && len(a.Key) != len(b.Key) {
			return len(a.Key) < len(b.Key)
		}
		return a.Key < b.Key
	})
	return rows
}

// WriteText writes the rows of d as type|key|count lines
func (r *Reporter) WriteText(w io.Writer, d Dimension) error {
	bw := bufio.NewWriter(w)
	for _, row := range r.Rows(d) {
		if _, err := fmt.Fprintf(bw, "%s|%s|%d\n", row.Type, row.Key, row.Count); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	return bw.Flush()
}

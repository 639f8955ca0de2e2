package lookup

import (
	"fmt"

	"github.com/jengzang/locstore-backend-go/internal/spatial"
)

// Row is one stored lookaside entry in textual form
type Row struct {
	ID      string `json:"id" db:"id"`
	Lat     string `json:"lat" db:"lat"`
	Lon     string `json:"lon" db:"lon"`
	Geohash string `json:"geohash" db:"geohash"` // computed when empty
}

// FromRows builds a Table from stored rows. A later row replaces an
// earlier one with the same id.
func FromRows(rows []Row) (*Table, error) {
	entries := make(map[string]Location, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrBadRow)
		}
		loc, err := NewLocation(r.Lat, r.Lon, r.Geohash)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w: %v", r.ID, ErrBadRow, err)
		}
		switch {
		case loc.Geohash == "":
			loc.Geohash = spatial.EncodeGeohash(loc.Lat, loc.Lon, spatial.DefaultPrecision)
		case !spatial.ValidGeohash(loc.Geohash):
			return nil, fmt.Errorf("row %s: %w: bad geohash %q", r.ID, ErrBadRow, loc.Geohash)
		}
		entries[r.ID] = loc
	}
	return &Table{entries: entries}, nil
}

// Rows returns the table contents in id order.
func (t *Table) Rows() []Row {
	ids := t.IDs()
	rows := make([]Row, len(ids))
	for i, id := range ids {
		loc := t.entries[id]
		rows[i] = Row{ID: id, Lat: loc.LatText, Lon: loc.LonText, Geohash: loc.Geohash}
	}
	return rows
}

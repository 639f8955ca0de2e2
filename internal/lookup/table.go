package lookup

import (
	"fmt"
	"sort"
	"strconv"
)

// Location is the resolved position of a cell or venue id
type Location struct {
	Lat     float64
	Lon     float64
	LatText string // as supplied by the source
	LonText string
	Geohash string
}

// NewLocation builds a Location from its textual form.
func NewLocation(lat, lon, geohash string) (Location, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}
	return Location{Lat: la, Lon: lo, LatText: lat, LonText: lon, Geohash: geohash}, nil
}

// Table is a read-only map from location id to Location.
// It is never mutated after construction and is safe for concurrent use.
type Table struct {
	entries map[string]Location
}

// NewTable copies entries into a new Table.
func NewTable(entries map[string]Location) *Table {
	m := make(map[string]Location, len(entries))
	for id, loc := range entries {
		m[id] = loc
	}
	return &Table{entries: m}
}

// Get resolves id.
func (t *Table) Get(id string) (Location, bool) {
	if t == nil {
		return Location{}, false
	}
	loc, ok := t.entries[id]
	return loc, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// IDs returns every id in sorted order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, t.Len())
	if t == nil {
		return ids
	}
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

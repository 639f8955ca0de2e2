package rowkey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// Key geometry shared by the builder, the planner and the decoder.
const (
	TimeWidth    = 10 // zero-padded Unix seconds
	GeoPrefixLen = 5  // geohash characters in a geo key
	EntityWidth  = 15 // entity segment, left-filled with Filler
	Filler       = "#"
	Sentinel     = "z"
)

var (
	ErrNoTimestamp     = errors.New("rowkey: hop has no timestamp")
	ErrNoGeohash       = errors.New("rowkey: hop has no usable geohash")
	ErrEntityTooLong   = errors.New("rowkey: entity does not fit the key")
	ErrEntityHasFiller = errors.New("rowkey: entity contains the filler byte")
)

// Reverse reverses s byte-wise. Keys only ever hold ASCII.
func Reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// FormatTime renders ts with a fixed width so keys sort by time.
func FormatTime(ts int64) string {
	return fmt.Sprintf("%0*d", TimeWidth, ts)
}

// PadEntity left-fills entity to EntityWidth so every key carries a
// fixed-width entity segment. Longer ids are returned unchanged.
func PadEntity(entity string) string {
	if n := EntityWidth - len(entity); n > 0 {
		return strings.Repeat(Filler, n) + entity
	}
	return entity
}

// TrimEntity undoes PadEntity.
func TrimEntity(segment string) string {
	return strings.TrimLeft(segment, Filler)
}

// CheckEntity reports whether entity can be stored in a key.
func CheckEntity(entity string) error {
	if len(entity) > EntityWidth {
		return fmt.Errorf("%w: %q", ErrEntityTooLong, entity)
	}
	if strings.Contains(entity, Filler) {
		return fmt.Errorf("%w: %q", ErrEntityHasFiller, entity)
	}
	return nil
}

// Entity builds reverse(pad(entity)) + ts + seq.
func Entity(entity string, ts int64, seq *int64) string {
	return Reverse(PadEntity(entity)) + FormatTime(ts) + seqString(seq)
}

// Geo builds reverse(geohash[:5]) + ts + pad(entity) + seq.
func Geo(geohash string, ts int64, entity string, seq *int64) string {
	return Reverse(geohash[:GeoPrefixLen]) + FormatTime(ts) + PadEntity(entity) + seqString(seq)
}

// EntityRange covers every row of one entity between t0 and t1 inclusive.
func EntityRange(entity string, t0, t1 int64) models.KeyRange {
	prefix := Reverse(PadEntity(entity))
	return models.KeyRange{
		Start: prefix + FormatTime(t0),
		End:   prefix + FormatTime(t1) + Sentinel,
		Tile:  entity,
	}
}

func seqString(seq *int64) string {
	if seq == nil {
		return ""
	}
	return strconv.FormatInt(*seq, 10)
}

// Builder turns flattened records into stored cells
type Builder struct {
	legacy3G *regexp.Regexp
}

// NewBuilder creates a builder. Data-session hops whose location matches
// legacy3G are stored with the 3G type code.
func NewBuilder(legacy3G *regexp.Regexp) *Builder {
	return &Builder{legacy3G: legacy3G}
}

// TypeCode returns the stored type code for f.
func (b *Builder) TypeCode(f models.FlattenedRecord) int {
	if f.Type != models.TypeAWSD {
		return int(f.Type)
	}
	if f.Location != nil && b.legacy3G != nil && b.legacy3G.MatchString(*f.Location) {
		return int(models.TypeAWSD)
	}
	return models.TypeCodeAWSD4G
}

// Cell builds the stored cell of f under layout.
func (b *Builder) Cell(f models.FlattenedRecord, layout models.Layout) (models.ScanCell, error) {
	if f.Timestamp == nil {
		return models.ScanCell{}, ErrNoTimestamp
	}
	ts := *f.Timestamp
	if err := CheckEntity(f.Entity); err != nil {
		return models.ScanCell{}, err
	}

	var key string
	switch layout {
	case models.LayoutEntity:
		key = Entity(f.Entity, ts, f.Seq)
	case models.LayoutGeo:
		if f.Geohash == nil || len(*f.Geohash) < GeoPrefixLen {
			return models.ScanCell{}, ErrNoGeohash
		}
		key = Geo(*f.Geohash, ts, f.Entity, f.Seq)
	default:
		return models.ScanCell{}, fmt.Errorf("rowkey: unknown layout %q", layout)
	}

	qualifier := ""
	if f.Location != nil {
		qualifier = *f.Location
	}

	return models.ScanCell{
		RowKey:    key,
		Qualifier: qualifier,
		Value:     f.StoreValue(b.TypeCode(f)),
		Timestamp: ts * 1000,
	}, nil
}

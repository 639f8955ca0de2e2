package query

import (
	"strings"

	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/rowkey"
)

// DefaultEntityWidth is the width of the entity segment of a row key
const DefaultEntityWidth = rowkey.EntityWidth

// compactEmpty is emitted for a cell that cannot be projected
const compactEmpty = ",,,,"

// Codec decodes stored cells of one index layout
type Codec struct {
	Layout      models.Layout
	EntityWidth int
}

// NewCodec creates a codec; a non-positive width uses the default.
func NewCodec(layout models.Layout, entityWidth int) Codec {
	if entityWidth <= 0 {
		entityWidth = DefaultEntityWidth
	}
	return Codec{Layout: layout, EntityWidth: entityWidth}
}

// Row splits the row key of c into its parts. ok is false when the key
// is too short for the layout.
func (k Codec) Row(c models.ScanCell) (row models.DecodedRow, ok bool) {
	row.Qualifier = c.Qualifier
	row.Value = c.Value
	key := c.RowKey

	switch k.Layout {
	case models.LayoutGeo:
		// reversed geohash prefix, timestamp, entity, seq
		tsEnd := rowkey.GeoPrefixLen + rowkey.TimeWidth
		if len(key) < tsEnd {
			return row, false
		}
		row.Geohash = rowkey.Reverse(key[:rowkey.GeoPrefixLen])
		row.Timestamp = key[rowkey.GeoPrefixLen:tsEnd]
		rest := key[tsEnd:]
		if len(rest) > k.EntityWidth {
			row.Entity, row.Seq = rest[:k.EntityWidth], rest[k.EntityWidth:]
		} else {
			row.Entity = rest
		}
		row.Entity = rowkey.TrimEntity(row.Entity)
	default:
		// reversed entity, timestamp, seq
		tsEnd := k.EntityWidth + rowkey.TimeWidth
		if len(key) < tsEnd {
			return row, false
		}
		row.Entity = rowkey.TrimEntity(rowkey.Reverse(key[:k.EntityWidth]))
		row.Timestamp = key[k.EntityWidth:tsEnd]
		row.Seq = key[tsEnd:]
	}
	return row, true
}

// Line renders c as entity|ts|qualifier|value. A key that is too short
// yields empty leading fields.
func (k Codec) Line(c models.ScanCell) string {
	row, ok := k.Row(c)
	if !ok {
		return "||" + c.Qualifier + "|" + c.Value
	}
	return row.Entity + "|" + row.Timestamp + "|" + c.Qualifier + "|" + c.Value
}

// DecodeEntityCell renders a cell of the entity index.
func DecodeEntityCell(c models.ScanCell, entityWidth int, compact bool) string {
	return NewCodec(models.LayoutEntity, entityWidth).render(c, compact)
}

// DecodeGeoCell renders a cell of the geo index.
func DecodeGeoCell(c models.ScanCell, entityWidth int, compact bool) string {
	return NewCodec(models.LayoutGeo, entityWidth).render(c, compact)
}

func (k Codec) render(c models.ScanCell, compact bool) string {
	if compact {
		return k.Compact(c)
	}
	return k.Line(c)
}

// Compact renders c as the 5-column projection ts,lat,lon,entity,type.
func (k Codec) Compact(c models.ScanCell) string {
	row, ok := k.Row(c)
	if !ok {
		return compactEmpty
	}
	// typeCode|dur|subtype|lat|lon
	v := strings.Split(c.Value, "|")
	if len(v) < 5 {
		return compactEmpty
	}
	return strings.Join([]string{
		row.Timestamp,
		v[3],
		v[4],
		row.Entity,
		models.TypeLabel(v[0]),
	}, ",")
}

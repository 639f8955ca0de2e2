package spatial

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/s2"

	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/rowkey"
)

var (
	ErrInvalidBox    = errors.New("spatial: invalid query box")
	ErrTooManyRanges = errors.New("spatial: query box needs too many ranges")
)

// Planner defaults
const (
	DefaultMaxBits   = 25
	DefaultMaxRanges = 4096
)

// Planner computes the key ranges covering a time window and a box
type Planner struct {
	maxBits   int
	keyBits   int
	maxRanges int
}

// NewPlanner creates a planner. Geo keys always carry a 5-character
// geohash prefix, so tiles are expanded to 25 bits before keys are built.
// maxBits caps the coarse tiling depth.
func NewPlanner(maxBits, maxRanges int) *Planner {
	keyBits := 5 * rowkey.GeoPrefixLen
	if maxBits <= 0 || maxBits > keyBits {
		maxBits = keyBits
	}
	if maxRanges <= 0 {
		maxRanges = DefaultMaxRanges
	}
	return &Planner{maxBits: maxBits, keyBits: keyBits, maxRanges: maxRanges}
}

type tile struct {
	value uint64
	bits  int
}

func (t tile) rect() s2.Rect {
	minLat, minLon, maxLat, maxLon := tileBounds(t.value, t.bits)
	return rectFromDegrees(minLat, minLon, maxLat, maxLon)
}

// Plan returns one range per 5-character geohash tile intersecting the
// box, in geohash order. Corners may be given in either order.
func (p *Planner) Plan(tStart, tEnd int64, lat0, lat1, lon0, lon1 float64) ([]models.KeyRange, error) {
	if tStart < 0 || tEnd < tStart {
		return nil, fmt.Errorf("%w: time window [%d, %d]", ErrInvalidBox, tStart, tEnd)
	}
	for _, v := range []float64{lat0, lat1, lon0, lon1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite coordinate", ErrInvalidBox)
		}
	}

	minLat, maxLat := math.Min(lat0, lat1), math.Max(lat0, lat1)
	minLon, maxLon := math.Min(lon0, lon1), math.Max(lon0, lon1)
	if minLat < -90 || maxLat > 90 || minLon < -180 || maxLon > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidBox)
	}

	tiles, err := p.Cover(minLat, minLon, maxLat, maxLon)
	if err != nil {
		return nil, err
	}

	start := rowkey.FormatTime(tStart)
	end := rowkey.FormatTime(tEnd) + rowkey.Sentinel

	ranges := make([]models.KeyRange, 0, len(tiles))
	for _, gh := range tiles {
		prefix := rowkey.Reverse(gh)
		ranges = append(ranges, models.KeyRange{
			Start: prefix + start,
			End:   prefix + end,
			Tile:  gh,
		})
	}
	return ranges, nil
}

// Cover returns the geohash tiles at key length that intersect the box.
func (p *Planner) Cover(minLat, minLon, maxLat, maxLon float64) ([]string, error) {
	box := rectFromDegrees(minLat, minLon, maxLat, maxLon)
	bits := BitsForBox(maxLat-minLat, maxLon-minLon, p.maxBits)

	tiles := p.coarse(minLat, minLon, maxLat, maxLon, bits)
	for depth := bits; depth < p.keyBits; depth++ {
		next := make([]tile, 0, 2*len(tiles))
		for _, t := range tiles {
			for b := uint64(0); b < 2; b++ {
				child := tile{value: t.value<<1 | b, bits: t.bits + 1}
				if box.Intersects(child.rect()) {
					next = append(next, child)
				}
			}
		}
		if len(next) > p.maxRanges {
			return nil, fmt.Errorf("%w: more than %d tiles", ErrTooManyRanges, p.maxRanges)
		}
		tiles = next
	}

	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = tileString(t.value, t.bits)
	}
	return out, nil
}

// coarse enumerates the tiles with the given bit depth that touch the box,
// ordered by geohash value.
func (p *Planner) coarse(minLat, minLon, maxLat, maxLon float64, bits int) []tile {
	latSpan, lonSpan := tileSpan(bits)
	lonBits := (bits + 1) / 2
	latBits := bits / 2

	lonLo := cellIndex(minLon+180, lonSpan, lonBits)
	lonHi := cellIndex(maxLon+180, lonSpan, lonBits)
	latLo := cellIndex(minLat+90, latSpan, latBits)
	latHi := cellIndex(maxLat+90, latSpan, latBits)

	var tiles []tile
	for x := lonLo; x <= lonHi; x++ {
		for y := latLo; y <= latHi; y++ {
			tiles = append(tiles, tile{value: interleave(x, y, bits), bits: bits})
		}
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].value < tiles[j].value })
	return tiles
}

// BitsForBox returns the deepest bit count, up to maxBits, whose tiles
// are at least as large as the box in both directions.
func BitsForBox(latSpan, lonSpan float64, maxBits int) int {
	bits := 0
	for bits < maxBits {
		tLat, tLon := tileSpan(bits + 1)
		if tLat < latSpan || tLon < lonSpan {
			break
		}
		bits++
	}
	return bits
}

func cellIndex(offset, span float64, bits int) uint64 {
	idx := math.Floor(offset / span)
	limit := math.Exp2(float64(bits)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > limit {
		idx = limit
	}
	return uint64(idx)
}

// interleave merges longitude and latitude cell indexes into a
// bit-level geohash, longitude first.
func interleave(x, y uint64, bits int) uint64 {
	lonBits := (bits + 1) / 2
	latBits := bits / 2
	var v uint64
	for i := 0; i < bits; i++ {
		v <<= 1
		if i%2 == 0 {
			lonBits--
			v |= (x >> uint(lonBits)) & 1
		} else {
			latBits--
			v |= (y >> uint(latBits)) & 1
		}
	}
	return v
}


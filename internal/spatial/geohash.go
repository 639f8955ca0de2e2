package spatial

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Base32 encoding for geohash
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// DefaultPrecision is the geohash length computed for fixes that carry
// their own coordinates.
const DefaultPrecision = 10

// EncodeGeohash encodes latitude and longitude into a geohash string
// precision: number of characters in the geohash (1-12)
func EncodeGeohash(lat, lon float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > 12 {
		precision = 12
	}

	latRange := [2]float64{-90.0, 90.0}
	lonRange := [2]float64{-180.0, 180.0}

	geohash := make([]byte, 0, precision)
	bits := 0
	bit := 0
	ch := 0

	for len(geohash) < precision {
		if bit%2 == 0 {
			mid := (lonRange[0] + lonRange[1]) / 2
			if lon > mid {
				ch |= 1 << (4 - bits)
				lonRange[0] = mid
			} else {
				lonRange[1] = mid
			}
		} else {
			mid := (latRange[0] + latRange[1]) / 2
			if lat > mid {
				ch |= 1 << (4 - bits)
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}

		bits++
		if bits == 5 {
			geohash = append(geohash, base32[ch])
			bits = 0
			ch = 0
		}
		bit++
	}

	return string(geohash)
}

// GeohashBounds returns the bounding box of a geohash cell
// Returns (minLat, minLon, maxLat, maxLon)
func GeohashBounds(geohash string) (float64, float64, float64, float64) {
	var value uint64
	n := 0
	for i := 0; i < len(geohash); i++ {
		idx := indexOfBase32(geohash[i])
		if idx == -1 {
			continue
		}
		value = value<<5 | uint64(idx)
		n += 5
	}
	return tileBounds(value, n)
}

// DecodeGeohash returns the center point of the geohash cell
func DecodeGeohash(geohash string) (lat, lon float64) {
	minLat, minLon, maxLat, maxLon := GeohashBounds(geohash)
	return (minLat + maxLat) / 2, (minLon + maxLon) / 2
}

// ValidGeohash reports whether s is non-empty and uses only the geohash alphabet.
func ValidGeohash(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if indexOfBase32(s[i]) == -1 {
			return false
		}
	}
	return true
}

// tileBounds decodes the first n bits of a bit-level geohash.
// Even bits split longitude, odd bits split latitude.
func tileBounds(value uint64, n int) (minLat, minLon, maxLat, maxLon float64) {
	latRange := [2]float64{-90.0, 90.0}
	lonRange := [2]float64{-180.0, 180.0}

	for i := 0; i < n; i++ {
		set := value&(1<<uint(n-1-i)) != 0
		if i%2 == 0 {
			mid := (lonRange[0] + lonRange[1]) / 2
			if set {
				lonRange[0] = mid
			} else {
				lonRange[1] = mid
			}
		} else {
			mid := (latRange[0] + latRange[1]) / 2
			if set {
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}
	}

	return latRange[0], lonRange[0], latRange[1], lonRange[1]
}

// tileSpan returns the height and width in degrees of a tile with n bits.
func tileSpan(n int) (latSpan, lonSpan float64) {
	lonBits := (n + 1) / 2
	latBits := n / 2
	return 180.0 / math.Exp2(float64(latBits)), 360.0 / math.Exp2(float64(lonBits))
}

// tileString renders a bit-level geohash whose length is a multiple of 5.
func tileString(value uint64, n int) string {
	chars := n / 5
	out := make([]byte, chars)
	for i := 0; i < chars; i++ {
		shift := uint(5 * (chars - 1 - i))
		out[i] = base32[(value>>shift)&31]
	}
	return string(out)
}

// rectFromDegrees builds an s2.Rect from explicit corners without
// letting s2 pick the shorter way around the antimeridian.
func rectFromDegrees(minLat, minLon, maxLat, maxLon float64) s2.Rect {
	return s2.Rect{
		Lat: r1.Interval{Lo: minLat * math.Pi / 180, Hi: maxLat * math.Pi / 180},
		Lng: s1.IntervalFromEndpoints(minLon*math.Pi/180, maxLon*math.Pi/180),
	}
}

// indexOfBase32 finds the index of a character in the base32 alphabet
func indexOfBase32(ch byte) int {
	for i := 0; i < len(base32); i++ {
		if base32[i] == ch {
			return i
		}
	}
	return -1
}

package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeGeohash(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{32.757687, -117.143073, "9mudq7752e"},
		{38.975723, -76.485779, "dqctex2f01"},
		{33.449532, -86.822922, "djfq2333xk"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeGeohash(tt.lat, tt.lon, DefaultPrecision))
		assert.Equal(t, tt.want[:5], EncodeGeohash(tt.lat, tt.lon, 5))
	}

	assert.Len(t, EncodeGeohash(1, 1, 0), 1)
	assert.Len(t, EncodeGeohash(1, 1, 40), 12)
}

func TestGeohashBounds(t *testing.T) {
	minLat, minLon, maxLat, maxLon := GeohashBounds("dp3z4")
	lat, lon := 42.042345, -87.425352
	assert.True(t, minLat <= lat && lat <= maxLat)
	assert.True(t, minLon <= lon && lon <= maxLon)

	cLat, cLon := DecodeGeohash("dp3z4tdf3t")
	assert.InDelta(t, lat, cLat, 1e-5)
	assert.InDelta(t, lon, cLon, 1e-5)
}

func TestTileHelpers(t *testing.T) {
	latSpan, lonSpan := tileSpan(25)
	assert.InDelta(t, 180.0/4096, latSpan, 1e-12)
	assert.InDelta(t, 360.0/8192, lonSpan, 1e-12)

	// "dp3z4" is 12 21 3 31 4 in base32 indexes
	v := uint64(12)<<20 | uint64(21)<<15 | uint64(3)<<10 | uint64(31)<<5 | uint64(4)
	assert.Equal(t, "dp3z4", tileString(v, 25))

	assert.True(t, ValidGeohash("dp3z4"))
	assert.False(t, ValidGeohash("dp3a4"))
	assert.False(t, ValidGeohash(""))
}

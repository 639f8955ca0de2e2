package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius
const EarthRadiusMeters = 6371008.8

// Extent is the ground size of a query box. Width is measured along the
// southern edge.
type Extent struct {
	WidthMeters  float64 `json:"width_m"`
	HeightMeters float64 `json:"height_m"`
	AreaKm2      float64 `json:"area_km2"`
}

// Distance returns the great-circle distance between two points in meters
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// BoxExtent measures the box spanned by two corners given in any order.
func BoxExtent(lat0, lat1, lon0, lon1 float64) Extent {
	minLat, maxLat := math.Min(lat0, lat1), math.Max(lat0, lat1)
	minLon, maxLon := math.Min(lon0, lon1), math.Max(lon0, lon1)

	rect := rectFromDegrees(minLat, minLon, maxLat, maxLon)
	return Extent{
		WidthMeters:  Distance(minLat, minLon, minLat, maxLon),
		HeightMeters: Distance(minLat, minLon, maxLat, minLon),
		AreaKm2:      rect.Area() * EarthRadiusMeters * EarthRadiusMeters / 1e6,
	}
}

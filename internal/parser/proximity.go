package parser

import (
	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/spatial"
)

// Proximity fix, 12 comma-delimited fields. Used offsets:
//
//	0 subscriber  1 cell  2 lat  3 lon  5 vendor  7 epoch
//
// The subscriber id of this feed is already qualified and is kept verbatim.
const proximityCellWidth = 9

var proximityVendors = map[string]int64{
	"alu": 1,
}

func decodeProximity(_ *Parser, f []string, st *state) error {
	rec := st.rec

	if f[0] == "" {
		return fieldErr("subscriber", errNoEntity)
	}
	rec.Entity = f[0]
	rec.Subtype = models.Int(proximityVendors[f[5]])

	ts, err := parseEpoch(f[7])
	if err != nil {
		return fieldErr("timestamp", err)
	}

	hop := models.Hop{
		Location:  models.String(leftPad(f[1], proximityCellWidth, '0')),
		Lat:       optFloat(f[2]),
		Lon:       optFloat(f[3]),
		Timestamp: models.Int(ts),
	}
	if hop.Lat != nil && hop.Lon != nil {
		hop.Geohash = models.String(spatial.EncodeGeohash(*hop.Lat, *hop.Lon, spatial.DefaultPrecision))
	}

	rec.Hops = []models.Hop{hop}
	return nil
}

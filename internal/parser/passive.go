package parser

import (
	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/spatial"
)

// Passive network fix, 8 pipe-delimited fields:
//
//	0 timestamp  1 identity flag  2 subscriber  3 lon  4 lat
//	5 use  6 method  7 accuracy class
const (
	passiveTemporaryFlag = "2"
	accuracyClassMeters  = 50
)

func decodePassive(p *Parser, f []string, st *state) error {
	rec := st.rec

	entity, err := p.entity(f[2])
	if err != nil {
		return fieldErr("subscriber", err)
	}
	rec.Entity = entity
	rec.Use = optInt(f[5])
	rec.Subtype = optInt(f[6])

	ts, err := parseStamp(f[0])
	if err != nil {
		return fieldErr("timestamp", err)
	}

	hop := models.Hop{
		Timestamp: models.Int(ts),
		Lat:       optFloat(f[4]),
		Lon:       optFloat(f[3]),
	}
	if class := optInt(f[7]); class != nil {
		hop.Accuracy = models.Int(*class * accuracyClassMeters)
	}
	if hop.Lat != nil && hop.Lon != nil {
		hop.Geohash = models.String(spatial.EncodeGeohash(*hop.Lat, *hop.Lon, spatial.DefaultPrecision))
	}
	if f[1] == passiveTemporaryFlag {
		hop.Code = models.CodeTemporaryIdentity
	}

	rec.Hops = []models.Hop{hop}
	return nil
}

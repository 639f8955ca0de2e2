package parser

import "github.com/jengzang/locstore-backend-go/internal/models"

// Wifi venue fix, 11 pipe-delimited fields:
//
//	0 subscriber  1 imei  2 venue  3 epoch  4 duration  5 lat  6 lon
//	7 geohash  8 bytes up  9 bytes down  10 originating
func decodeWifi(p *Parser, f []string, st *state) error {
	rec := st.rec

	entity, err := p.entity(f[0])
	if err != nil {
		return fieldErr("subscriber", err)
	}
	rec.Entity = entity
	rec.IMEI = optStr(f[1])
	rec.TnOrig = optStr(f[10])
	rec.VolUp = optInt(f[8])
	rec.VolDown = optInt(f[9])

	ts, err := parseEpoch(f[3])
	if err != nil {
		return fieldErr("timestamp", err)
	}

	rec.Hops = []models.Hop{{
		Location:  optStr(f[2]),
		Geohash:   optStr(f[7]),
		Lat:       optFloat(f[5]),
		Lon:       optFloat(f[6]),
		Timestamp: models.Int(ts),
		Duration:  optInt(f[4]),
	}}
	return nil
}

package parser

import "github.com/jengzang/locstore-backend-go/internal/models"

// SMS event, 28 pipe-delimited fields. Used offsets:
//
//	0 timestamp  1 originating  3 terminating  7 call type
//	13 imei  14 [location]  15 subscriber  16 feed  20 cause
const cdrAccuracy = 1000

func decodeSMS(p *Parser, f []string, st *state) error {
	rec := st.rec

	entity, err := p.entity(f[15])
	if err != nil {
		return fieldErr("subscriber", err)
	}
	rec.Entity = entity
	rec.IMEI = optStr(f[13])
	rec.TnOrig = optStr(f[1])
	rec.TnTerm = optStr(f[3])
	rec.CallType = optInt(f[7])
	rec.Subtype = optInt(f[16])
	rec.Cause = optInt(f[20])
	rec.Use = models.Int(0)

	ts, err := parseStamp(f[0])
	if err != nil {
		return fieldErr("timestamp", err)
	}

	st.hopPhase = true
	hop := models.Hop{
		Timestamp: models.Int(ts),
		Accuracy:  models.Int(cdrAccuracy),
	}
	locs := splitList(f[14])
	if len(locs) == 0 {
		hop.Code = models.CodeNoLocationMatch
	} else {
		p.resolve(&hop, locs[0])
	}

	rec.Hops = []models.Hop{hop}
	return nil
}

package parser

import "github.com/jengzang/locstore-backend-go/internal/models"

// Data session, 45 pipe-delimited fields. Used offsets:
//
//	0 start timestamp  1 originating  4 total length "Ns"  5 subscriber
//	6 bytes up  7 bytes down  9 imei  10 cause  14 [loc:loc...]
//	15 feed  37 [dur:dur...]
func decodeData(p *Parser, f []string, st *state) error {
	rec := st.rec

	entity, err := p.entity(f[5])
	if err != nil {
		return fieldErr("subscriber", err)
	}
	rec.Entity = entity
	rec.IMEI = models.String(f[9]) // empty imei stays empty, not absent
	rec.TnOrig = optStr(f[1])
	rec.VolUp = optInt(f[6])
	rec.VolDown = optInt(f[7])
	rec.Cause = optInt(f[10])
	rec.Subtype = optInt(f[15])
	rec.Use = models.Int(0)

	hdr, err := parseStamp(f[0])
	if err != nil {
		return fieldErr("timestamp", err)
	}

	st.hopPhase = true
	p.buildSession(rec, session{
		header:    hdr,
		total:     optSeconds(f[4]),
		locations: splitList(f[14]),
		durations: splitList(f[37]),
	})
	return nil
}

package parser

import "github.com/jengzang/locstore-backend-go/internal/models"

// Voice session, 41 pipe-delimited fields. Used offsets:
//
//	0 end timestamp  1 originating  3 terminating  5 total length "Ns"
//	8 cause  17 imei  18 [loc:loc...]  19 subscriber
//	20 seconds from first cell to header  39 [dur:dur...]
func decodeVoice(p *Parser, f []string, st *state) error {
	rec := st.rec

	entity, err := p.entity(f[19])
	if err != nil {
		return fieldErr("subscriber", err)
	}
	rec.Entity = entity
	rec.IMEI = optStr(f[17])
	rec.TnOrig = optStr(f[1])
	rec.TnTerm = optStr(f[3])
	rec.Cause = optInt(f[8])
	rec.Subtype = models.Int(0)
	rec.CallType = models.Int(0)
	rec.Use = models.Int(0)

	hdr, err := parseStamp(f[0])
	if err != nil {
		return fieldErr("timestamp", err)
	}

	var offset int64
	if v := optInt(f[20]); v != nil {
		offset = *v
	}

	st.hopPhase = true
	p.buildSession(rec, session{
		header:    hdr,
		offset:    offset,
		total:     optSeconds(f[5]),
		locations: splitList(f[18]),
		durations: splitList(f[39]),
	})
	return nil
}

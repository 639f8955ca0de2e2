package parser

import "github.com/jengzang/locstore-backend-go/internal/models"

// applyOverrides relabels successful data-session hops that are known to
// report a misleading location. Hops that already failed keep their code.
func (p *Parser) applyOverrides(rec *models.MultiHopRecord) {
	if rec.Type != models.TypeAWSD || rec.Subtype == nil || len(rec.Hops) == 0 {
		return
	}

	switch *rec.Subtype {
	case p.opts.StickySubtype:
		first := &rec.Hops[0]
		if first.Code.OK() && first.Location != nil && p.opts.Legacy3G.MatchString(*first.Location) {
			first.Code = models.CodeStickyLegacyTower
		}
	case p.opts.AnchorSubtype:
		for i := range rec.Hops {
			if rec.Hops[i].Code.OK() {
				rec.Hops[i].Code = models.CodeAnchorTower
			}
		}
	}
}

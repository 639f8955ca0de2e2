package parser

import (
	"strconv"
	"strings"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// session carries the header values and hop lists of a multi-cell record
type session struct {
	header    int64  // header timestamp
	offset    int64  // seconds between the first cell and the header
	total     *int64 // total session length, nil when unreadable
	locations []string
	durations []string
}

// buildSession creates one hop per location, resolves each through the
// lookup table and reconstructs hop timestamps and durations.
func (p *Parser) buildSession(rec *models.MultiHopRecord, s session) {
	n := len(s.locations)
	if n == 0 {
		// no cell list at all: keep a single unresolved hop
		rec.Hops = []models.Hop{{
			Seq:       models.Int(0),
			Timestamp: models.Int(s.header - s.offset),
			Accuracy:  models.Int(cdrAccuracy),
			Code:      models.CodeNoLocationMatch,
		}}
		return
	}

	hops := make([]models.Hop, n)
	for i := range hops {
		hops[i].Seq = models.Int(int64(i))
		hops[i].Accuracy = models.Int(cdrAccuracy)
	}
	reconstruct(hops, s)

	for i := range hops {
		code := hops[i].Code
		p.resolve(&hops[i], strings.TrimSpace(s.locations[i]))
		if hops[i].Code != models.CodeNoLocationMatch {
			hops[i].Code = code
		}
	}
	rec.Hops = hops
}

// reconstruct fills hop timestamps and durations.
//
// The first hop starts at header - offset and each following hop starts
// where the previous one ended. A duration token that does not parse
// marks its hop DURATION_PARSE_ERROR and leaves the following hops
// without a timestamp (BAD_PRIOR_DURATION), except the final hop, which
// is anchored at header + total. A lone hop without a usable duration
// takes total + offset.
func reconstruct(hops []models.Hop, s session) {
	n := len(hops)
	broken := false

	for i := range hops {
		h := &hops[i]
		last := i == n-1

		switch {
		case i == 0:
			h.Timestamp = models.Int(s.header - s.offset)
		case !broken:
			h.Timestamp = models.Int(*hops[i-1].Timestamp + *hops[i-1].Duration)
		case last && s.total != nil:
			h.Timestamp = models.Int(s.header + *s.total)
		default:
			h.Code = models.CodeBadPriorDuration
		}

		if d, ok := durationAt(s.durations, i); ok {
			h.Duration = models.Int(d)
			continue
		}

		switch {
		case n == 1 && s.total != nil:
			h.Duration = models.Int(*s.total + s.offset)
		case last && !broken && s.total != nil:
			h.Duration = models.Int(s.header + *s.total - *h.Timestamp)
		default:
			h.Code = models.CodeDurationParseError
			broken = true
		}
	}
}

func durationAt(tokens []string, i int) (int64, bool) {
	if i >= len(tokens) {
		return 0, false
	}
	d, err := strconv.ParseInt(strings.TrimSpace(tokens[i]), 10, 64)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

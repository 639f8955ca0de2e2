package parser

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/jengzang/locstore-backend-go/internal/identity"
	"github.com/jengzang/locstore-backend-go/internal/lookup"
	"github.com/jengzang/locstore-backend-go/internal/models"
)

// Default data-quality settings
const (
	DefaultLegacy3GPattern = `^000`
	DefaultStickySubtype   = 29
	DefaultAnchorSubtype   = 28
)

var errNoEntity = errors.New("subscriber id is empty")

// Options tunes the data-quality overrides
type Options struct {
	Legacy3G      *regexp.Regexp // location ids of legacy 3G cells
	StickySubtype int64          // data-session subtype pinned to its first cell
	AnchorSubtype int64          // data-session subtype reported at the gateway
}

// DefaultOptions returns the production override settings.
func DefaultOptions() Options {
	return Options{
		Legacy3G:      regexp.MustCompile(DefaultLegacy3GPattern),
		StickySubtype: DefaultStickySubtype,
		AnchorSubtype: DefaultAnchorSubtype,
	}
}

// Parser turns raw carrier lines into MultiHopRecords.
// A Parser holds only read-only state and is safe for concurrent use.
type Parser struct {
	table      *lookup.Table
	normalizer *identity.Normalizer
	opts       Options
	logger     *zap.Logger
}

// New creates a parser. A nil logger disables logging.
func New(table *lookup.Table, normalizer *identity.Normalizer, opts Options, logger *zap.Logger) *Parser {
	if normalizer == nil {
		normalizer = identity.NewNormalizer("", 0, nil)
	}
	if opts.Legacy3G == nil {
		opts.Legacy3G = regexp.MustCompile(DefaultLegacy3GPattern)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{table: table, normalizer: normalizer, opts: opts, logger: logger}
}

// state tracks the record under construction so a failure can be
// classified by the phase it happened in.
type state struct {
	rec      *models.MultiHopRecord
	hopPhase bool
}

// Parse never fails: lines that cannot be read still produce a record
// whose hops carry the reason.
func (p *Parser) Parse(line string) (rec *models.MultiHopRecord) {
	st := &state{}

	defer func() {
		if r := recover(); r != nil {
			code := models.CodeUnknownError
			if st.hopPhase {
				code = models.CodeUnknownMultiError
			}
			p.logger.Debug("parser: recovered from panic",
				zap.Any("panic", r),
				zap.String("code", code.String()))
			rec = st.bestEffort(code)
		}
	}()

	sig, fields := classify(line)
	f, ok := formats[sig]
	if !ok {
		return malformed()
	}

	st.rec = &models.MultiHopRecord{}
	st.rec.Type = f.typ

	if err := f.decode(p, fields, st); err != nil {
		code := models.CodeUnknownError
		if st.hopPhase {
			code = models.CodeUnknownMultiError
		}
		p.logger.Debug("parser: failed to decode line",
			zap.String("type", f.typ.String()),
			zap.String("code", code.String()),
			zap.Error(err))
		return st.bestEffort(code)
	}

	p.finish(st.rec)
	return st.rec
}

// finish replaces pending success codes with the domestic or roaming
// variant, applies data-quality overrides and syncs code names.
func (p *Parser) finish(rec *models.MultiHopRecord) {
	success := models.CodeOK
	if rec.Type != models.TypeCLOSENUPH && !p.normalizer.IsDomestic(rec.Entity) {
		success = models.CodeOKNonDomestic
	}
	for i := range rec.Hops {
		if rec.Hops[i].Code == models.CodeOK {
			rec.Hops[i].Code = success
		}
	}

	p.applyOverrides(rec)

	for i := range rec.Hops {
		rec.SetCode(i, rec.Hops[i].Code)
	}
}

// bestEffort collapses whatever was decoded into a single hop with code.
func (st *state) bestEffort(code models.ParseCode) *models.MultiHopRecord {
	out := &models.MultiHopRecord{}
	hop := models.Hop{}
	if st.rec != nil {
		out.RecordScalars = st.rec.RecordScalars
		if len(st.rec.Hops) > 0 {
			hop = st.rec.Hops[0]
		}
	}
	out.Hops = []models.Hop{hop}
	out.SetCode(0, code)
	return out
}

func malformed() *models.MultiHopRecord {
	rec := &models.MultiHopRecord{Hops: make([]models.Hop, 1)}
	rec.SetCode(0, models.CodeBadInputLine)
	return rec
}

// entity normalizes the raw subscriber field.
func (p *Parser) entity(raw string) (string, error) {
	if raw == "" {
		return "", errNoEntity
	}
	return p.normalizer.Normalize(raw), nil
}

// resolve geocodes h through the lookup table. A miss keeps the raw id
// and leaves the coordinates empty.
func (p *Parser) resolve(h *models.Hop, id string) {
	h.Location = models.String(id)
	loc, ok := p.table.Get(id)
	if !ok {
		h.Code = models.CodeNoLocationMatch
		return
	}
	h.Lat = models.Float(loc.Lat)
	h.Lon = models.Float(loc.Lon)
	h.Geohash = models.String(loc.Geohash)
}

func fieldErr(name string, err error) error {
	return fmt.Errorf("field %s: %w", name, err)
}

package service

import (
	"fmt"

	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/parser"
)

// MaxParseLines bounds one parse request
const MaxParseLines = 1000

// ParseService parses raw feed lines without storing them
type ParseService struct {
	parser *parser.Parser
}

// NewParseService creates a new parse service
func NewParseService(p *parser.Parser) *ParseService {
	return &ParseService{parser: p}
}

// Parse flattens every line into its hops
func (s *ParseService) Parse(lines []string) ([]models.ParsedLine, error) {
	if len(lines) > MaxParseLines {
		return nil, fmt.Errorf("%w: at most %d lines per request", ErrInvalidQuery, MaxParseLines)
	}

	out := make([]models.ParsedLine, len(lines))
	for i, line := range lines {
		rec := s.parser.Parse(line)
		out[i] = models.ParsedLine{
			Line:    line,
			Type:    rec.Type.String(),
			Records: parser.Expand(rec),
		}
	}
	return out, nil
}

package models

// ParseCode is the per-hop outcome of parsing a raw line.
type ParseCode int

// ParseCode constants
const (
	CodeOK               ParseCode = iota // success, home network subscriber
	CodeOKNonDomestic                     // success, roaming subscriber
	CodeBadInputLine                      // no known layout matched
	CodeUnknownError                      // failure while reading scalar fields
	CodeUnknownMultiError                 // failure while reading hop fields
	CodeTemporaryIdentity                 // passive fix with an unresolved subscriber id
	CodeNoLocationMatch                   // location id missing from the lookup table
	CodeStickyLegacyTower                 // data session pinned to a legacy 3G cell
	CodeAnchorTower                       // data session reported at the gateway anchor
	CodeDurationParseError                // hop duration token did not parse
	CodeBadPriorDuration                  // timestamp depends on an earlier broken duration
)

var parseCodeNames = [...]string{
	CodeOK:                 "FINISH_OKAY",
	CodeOKNonDomestic:      "FINISH_OKAY_NON_DOMESTIC",
	CodeBadInputLine:       "BAD_INPUT_LINE",
	CodeUnknownError:       "UNKNOWN_ERROR",
	CodeUnknownMultiError:  "UNKNOWN_MULTI_ERROR",
	CodeTemporaryIdentity:  "NELOS_TEMPORARY_IMSI",
	CodeNoLocationMatch:    "NO_LACCID_MATCH",
	CodeStickyLegacyTower:  "AWSD_STICKY_3G_RECORD",
	CodeAnchorTower:        "AWSD_SGW_RECORD",
	CodeDurationParseError: "DURATION_PARSE_ERROR",
	CodeBadPriorDuration:   "BAD_PRIOR_DURATION",
}

func (c ParseCode) String() string {
	if c < 0 || int(c) >= len(parseCodeNames) {
		return "UNKNOWN_ERROR"
	}
	return parseCodeNames[c]
}

// OK reports whether the hop belongs in strict-success views.
func (c ParseCode) OK() bool {
	return c == CodeOK || c == CodeOKNonDomestic
}

// ParseParseCode converts a code name back to its value.
func ParseParseCode(s string) (ParseCode, bool) {
	for i, name := range parseCodeNames {
		if name == s {
			return ParseCode(i), true
		}
	}
	return CodeUnknownError, false
}

// AllParseCodes lists every code in declaration order.
func AllParseCodes() []ParseCode {
	codes := make([]ParseCode, len(parseCodeNames))
	for i := range parseCodeNames {
		codes[i] = ParseCode(i)
	}
	return codes
}

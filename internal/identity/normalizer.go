package identity

import "strings"

// Defaults for the home network.
const (
	DefaultPrefix     = "310410"
	DefaultFullLength = 15
)

// DefaultHomeCodes are the country codes treated as domestic.
var DefaultHomeCodes = []string{"310", "311", "312", "313", "314", "315", "316"}

// Normalizer canonicalizes subscriber ids to full length
type Normalizer struct {
	prefix     string
	fullLength int
	homeCodes  []string
}

// NewNormalizer creates a normalizer. Zero values fall back to the defaults.
func NewNormalizer(prefix string, fullLength int, homeCodes []string) *Normalizer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if fullLength <= 0 {
		fullLength = DefaultFullLength
	}
	if len(homeCodes) == 0 {
		homeCodes = DefaultHomeCodes
	}
	return &Normalizer{prefix: prefix, fullLength: fullLength, homeCodes: homeCodes}
}

// Normalize pads a short subscriber id with the network prefix.
// Ids already at full length are returned unchanged.
func (n *Normalizer) Normalize(raw string) string {
	pad := n.fullLength - len(raw)
	if pad <= 0 {
		return raw
	}
	if pad <= len(n.prefix) {
		return n.prefix[:pad] + raw
	}
	// prefix shorter than the gap: zero-fill between prefix and id
	return n.prefix + strings.Repeat("0", pad-len(n.prefix)) + raw
}

// IsDomestic reports whether id belongs to a home country code.
func (n *Normalizer) IsDomestic(id string) bool {
	for _, code := range n.homeCodes {
		if strings.HasPrefix(id, code) {
			return true
		}
	}
	return false
}

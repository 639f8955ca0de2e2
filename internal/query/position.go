package query

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// ErrBadToken is returned for a resume token that cannot be decoded
var ErrBadToken = errors.New("invalid resume token")

// Position is a resume point inside a range list. RowKey and Qualifier
// name the last cell already returned; empty means start of range.
type Position struct {
	Range     int    `json:"r"`
	RowKey    string `json:"k,omitempty"`
	Qualifier string `json:"q,omitempty"`
}

// After reports whether the cell (rowKey, qualifier) sorts strictly
// after p.
func (p Position) After(rowKey, qualifier string) bool {
	if p.RowKey == "" && p.Qualifier == "" {
		return true
	}
	if rowKey != p.RowKey {
		return rowKey > p.RowKey
	}
	return qualifier > p.Qualifier
}

// Token encodes p as an opaque URL-safe string.
func (p Position) Token() string {
	b, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(b)
}

// ParseToken decodes a token produced by Position.Token.
func ParseToken(token string) (Position, error) {
	var p Position
	if token == "" {
		return p, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return p, ErrBadToken
	}
	if err := json.Unmarshal(b, &p); err != nil || p.Range < 0 {
		return Position{}, ErrBadToken
	}
	return p, nil
}

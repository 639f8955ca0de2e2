package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Header timestamps look like 2014-09-17@04:59:16 with optional
// fractional seconds, always UTC.
const stampLayout = "2006-01-02@15:04:05"

func parseStamp(s string) (int64, error) {
	t, err := time.Parse(stampLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.Unix(), nil
}

func parseEpoch(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid epoch %q: %w", s, err)
	}
	return v, nil
}

func optInt(s string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func optFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optSeconds parses a session length written as "419s".
func optSeconds(s string) *int64 {
	return optInt(strings.TrimSuffix(strings.TrimSpace(s), "s"))
}

// splitList unpacks a bracketed, colon-separated hop list.
// "[]" and "" both yield an empty list.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

func leftPad(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}

package report

import (
	"sort"
	"strings"
)

// Dedupe groups raw-profile lines by entity (the first field), sorts
// each group and drops repeated lines. Entities come out in sorted
// order. Lines without a field separator are dropped.
func Dedupe(lines []string) []string {
	groups := make(map[string][]string)
	for _, line := range lines {
		entity, rest, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		groups[entity] = append(groups[entity], rest)
	}

	entities := make([]string, 0, len(groups))
	for e := range groups {
		entities = append(entities, e)
	}
	sort.Strings(entities)

	out := make([]string, 0, len(lines))
	for _, e := range entities {
		rest := groups[e]
		sort.Strings(rest)
		for i, r := range rest {
			if i > 0 && r == rest[i-1] {
				continue
			}
			out = append(out, e+"|"+r)
		}
	}
	return out
}

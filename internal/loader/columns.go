package loader

import (
	"fmt"
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_]`)

// standardizeName trims, lowercases, turns spaces into underscores and drops
// anything outside the word character set.
func standardizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	return nonWordPattern.ReplaceAllString(name, "")
}

// StandardizeNames standardizes every name. Names that end up empty become
// column_<i> and collisions get a numeric suffix, so the result is unique and
// a second pass leaves it unchanged.
func StandardizeNames(names []string) []string {
	out := make([]string, len(names))
	base := make(map[string]bool, len(names))
	for i, name := range names {
		s := standardizeName(name)
		if s == "" {
			s = fmt.Sprintf("column_%d", i)
		}
		out[i] = s
		base[s] = true
	}

	seen := make(map[string]bool, len(out))
	for i, name := range out {
		if !seen[name] {
			seen[name] = true
			continue
		}
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s_%d", name, n)
			if !seen[candidate] && !base[candidate] {
				out[i] = candidate
				seen[candidate] = true
				break
			}
		}
	}
	return out
}

package loader

import (
	"regexp"
	"strings"
)

// LabelRule rewrites every match of Pattern to Replacement.
type LabelRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// DefaultLabelRules is the canonicalisation table applied to the language column.
var DefaultLabelRules = []LabelRule{
	{
		Name:        "code_switching",
		Pattern:     regexp.MustCompile(`Mixed\s*\(Code-switching\)`),
		Replacement: "Code Switching",
	},
}

var bracketPattern = regexp.MustCompile(`\[.*?\]`)

// stripBrackets removes every [..] annotation and trims the result.
func stripBrackets(s string) string {
	return strings.TrimSpace(bracketPattern.ReplaceAllString(s, ""))
}

// applyRules runs every rule over s in order, then trims.
func applyRules(rules []LabelRule, s string) string {
	for _, r := range rules {
		s = r.Pattern.ReplaceAllLiteralString(s, r.Replacement)
	}
	return strings.TrimSpace(s)
}

package formula

import (
	"regexp"
	"strings"
)

// subFormRe and simpleFormRe mirror §4.4.1's two extraction regexes, run in order.
var (
	subFormRe    = regexp.MustCompile(`(?i)[VCSM]\d+\.\d+`)
	simpleFormRe = regexp.MustCompile(`(?i)[VCSFIR]\d+`)
)

// ExtractReferences finds every reference token in a formula, uppercased and
// de-duplicated, in the order the spec's two-pass regex approach discovers them:
// sub-item/module forms first, then simple forms — skipping any simple-form match
// immediately followed by ".digit" so it isn't double-counted as a sub form (§4.4.1's
// negative lookahead, which Go's RE2 engine cannot express directly).
func ExtractReferences(formula string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, m := range subFormRe.FindAllString(formula, -1) {
		tok := strings.ToUpper(m)
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}

	for _, loc := range simpleFormRe.FindAllStringIndex(formula, -1) {
		start, end := loc[0], loc[1]
		if end < len(formula) && formula[end] == '.' && end+1 < len(formula) && isDigit(formula[end+1]) {
			continue // part of an already-captured sub form
		}
		tok := strings.ToUpper(formula[start:end])
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}

	return out
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Package resolver turns raw Graph field names, settings-catalog identifiers,
// OMA-URIs and encoded values into human-readable labels.
//
// Every function is pure and total: unknown input resolves to an explicit
// default ("General", "Configured", ...) instead of an error.
package resolver

import "strings"

// CategorySeparator joins the segments of a hierarchical category.
const CategorySeparator = " > "

// DefaultCategory is returned when no keyword rule matches.
const DefaultCategory = "General"

// rule maps any of its keywords to a result. When refine is set, the first
// matching refinement overrides result.
type rule struct {
	result   string
	keywords []string
	refine   []rule
}

func (r rule) matches(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// cascade is an ordered rule table; the first matching rule wins.
type cascade []rule

func (c cascade) resolve(input, fallback string) string {
	lower := strings.ToLower(input)

	for _, r := range c {
		if !r.matches(lower) {
			continue
		}

		if len(r.refine) > 0 {
			return cascade(r.refine).resolve(lower, r.result)
		}

		return r.result
	}

	return fallback
}

func path(segments ...string) string {
	return strings.Join(segments, CategorySeparator)
}

func kw(words ...string) []string {
	return words
}

// Package search filters normalized policies by free text, family and platform.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"policyscope/internal/models"
	"policyscope/pkg/utils"
)

// All disables a family or platform filter.
const All = "all"

// Query selects policies. Empty fields match everything.
type Query struct {
	Text     string
	Family   string
	Platform string
}

var strs = utils.NewStringHelper()

// Fold lowercases s, strips diacritics and collapses whitespace so "Sécurité"
// matches "securite".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strs.NormalizeWhitespace(strings.ToLower(folded))
}

// Filter returns the policies matching q in their original order.
func Filter(policies []models.Policy, q Query) []models.Policy {
	m := newMatcher(q)
	out := make([]models.Policy, 0, len(policies))

	for i := range policies {
		if m.match(&policies[i]) {
			out = append(out, policies[i])
		}
	}

	return out
}

// Match reports whether a single policy satisfies q.
func Match(p *models.Policy, q Query) bool {
	return newMatcher(q).match(p)
}

type matcher struct {
	text     string
	family   models.Family
	platform models.Platform
	anyFam   bool
	anyPlat  bool
}

func newMatcher(q Query) matcher {
	m := matcher{text: Fold(q.Text)}

	switch fam := strings.TrimSpace(q.Family); {
	case fam == "" || strings.EqualFold(fam, All):
		m.anyFam = true
	default:
		if f, ok := models.ParseFamily(fam); ok {
			m.family = f
		} else {
			m.family = models.Family(fam)
		}
	}

	switch plat := strings.TrimSpace(q.Platform); {
	case plat == "" || strings.EqualFold(plat, All):
		m.anyPlat = true
	default:
		m.platform = parsePlatform(plat)
	}

	return m
}

func (m matcher) match(p *models.Policy) bool {
	if !m.anyFam && p.Family != m.family {
		return false
	}

	if !m.anyPlat && p.Platform != m.platform {
		return false
	}

	if m.text == "" {
		return true
	}

	if m.contains(p.Name) || m.contains(p.Description) {
		return true
	}

	for _, s := range p.Settings {
		if m.contains(s.Category) || m.contains(s.Key) || m.contains(s.Value) || m.contains(s.Description) {
			return true
		}
	}

	return false
}

func (m matcher) contains(s string) bool {
	return s != "" && strings.Contains(Fold(s), m.text)
}

func parsePlatform(s string) models.Platform {
	for _, p := range models.Platforms {
		if strings.EqualFold(string(p), s) {
			return p
		}
	}

	return models.Platform(s)
}

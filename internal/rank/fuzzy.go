package rank

import (
	"regexp"
	"strings"

	"github.com/promptvault/promptvault/internal/model"
)

// MatchesQuery reports whether the prompt contains the query as a
// case-insensitive substring in its name, description, content, or any tag.
// This is the inclusion gate; FuzzyScore only affects ordering among matches.
func MatchesQuery(p *model.Prompt, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// FuzzyScore computes a lexical relevance score for the query against the
// prompt's fields. Exact matches score highest, substring matches earn a
// position-weighted bonus, and word-prefix matches and length similarity add
// smaller boosts.
func FuzzyScore(p *model.Prompt, query string) float64 {
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description)
	content := strings.ToLower(p.Content)

	var score float64

	if name == q {
		score += 100
	}
	if desc == q {
		score += 80
	}
	for _, tag := range p.Tags {
		if strings.ToLower(tag) == q {
			score += 90
		}
	}

	if idx := strings.Index(name, q); idx >= 0 {
		score += max(50-2*float64(idx), 10)
	}
	if idx := strings.Index(desc, q); idx >= 0 {
		score += max(30-float64(idx), 5)
	}
	for _, tag := range p.Tags {
		if idx := strings.Index(strings.ToLower(tag), q); idx >= 0 {
			score += max(40-float64(idx), 8)
		}
	}
	if idx := strings.Index(content, q); idx >= 0 {
		score += max(20-float64(idx/100), 2)
	}

	if prefix := wordPrefixPattern(q); prefix != nil {
		if prefix.MatchString(name) {
			score += 15
		}
		if prefix.MatchString(desc) {
			score += 10
		}
	}

	if len(q) >= 3 && len(name) > 0 && float64(len(q))/float64(len(name)) > 0.3 {
		score += 5
	}

	return score
}

// wordPrefixPattern matches the query at the start of a word.
func wordPrefixPattern(q string) *regexp.Regexp {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(q))
	if err != nil {
		return nil
	}
	return re
}

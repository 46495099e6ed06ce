package dataprocessing

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultMatchCutoff is the minimum similarity ratio a header needs to be
// accepted as a match for an alias.
const DefaultMatchCutoff = 0.6

// ColumnMatcher resolves canonical field aliases against the headers of a
// table using the Ratcliff/Obershelp similarity ratio.
type ColumnMatcher struct {
	cutoff float64
}

// NewColumnMatcher creates a matcher with the given acceptance cutoff.
// A cutoff outside (0, 1] falls back to DefaultMatchCutoff.
func NewColumnMatcher(cutoff float64) *ColumnMatcher {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultMatchCutoff
	}
	return &ColumnMatcher{cutoff: cutoff}
}

// Match returns the first header that approximately matches an alias, trying
// aliases in priority order. Available headers must already be normalized.
func Match(aliases, available []string) (string, bool) {
	return defaultMatcher.Match(aliases, available)
}

var defaultMatcher = NewColumnMatcher(DefaultMatchCutoff)

// Match resolves aliases against available. The first alias with any
// accepted candidate wins, even when a later alias would score higher.
func (m *ColumnMatcher) Match(aliases, available []string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}

	candidates := make([][]string, len(available))
	for i, name := range available {
		candidates[i] = chars(name)
	}

	for _, alias := range aliases {
		if best, ok := m.closest(strings.ToLower(alias), available, candidates); ok {
			return best, true
		}
	}
	return "", false
}

// closest returns the best-scoring available name for word. Ties go to the
// lexicographically greater name.
func (m *ColumnMatcher) closest(word string, available []string, candidates [][]string) (string, bool) {
	matcher := difflib.NewMatcher(nil, chars(word))

	var (
		best      string
		bestScore float64
		found     bool
	)
	for i, candidate := range candidates {
		matcher.SetSeq1(candidate)
		if matcher.RealQuickRatio() < m.cutoff || matcher.QuickRatio() < m.cutoff {
			continue
		}
		score := matcher.Ratio()
		if score < m.cutoff {
			continue
		}
		name := available[i]
		if !found || score > bestScore || (score == bestScore && name > best) {
			best, bestScore, found = name, score, true
		}
	}
	return best, found
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

package dataprocessing

import (
	"math"
	"unicode/utf8"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"fundx/pkg/contracts/domain"
)

// DefaultNameDrift is the share of the longer name's length that two fund
// names may differ by and still be reported as near duplicates.
const DefaultNameDrift = 0.2

// SimilarNames returns pairs of distinct names whose edit distance is within
// drift of the longer name's length. Pairs follow the order of names.
func SimilarNames(names []string, drift float64) []domain.NamePair {
	var pairs []domain.NamePair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			if a == b {
				continue
			}
			maxLen := utf8.RuneCountInString(a)
			if n := utf8.RuneCountInString(b); n > maxLen {
				maxLen = n
			}
			limit := int(math.Floor(float64(maxLen) * drift))
			if limit == 0 {
				continue
			}
			distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptionsWithSub)
			if distance <= limit {
				pairs = append(pairs, domain.NamePair{A: a, B: b, Distance: distance})
			}
		}
	}
	return pairs
}

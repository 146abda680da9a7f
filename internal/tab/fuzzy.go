package tab

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the similarity ratio below which words are left alone.
const DefaultThreshold = 0.6

// Matcher reconciles freshly typed order names against the names already in
// a session, so "frie" lands on the existing "fries" row instead of opening a
// second one. Matching is per-word and case-sensitive; it is a heuristic, not
// exact dedup.
type Matcher struct {
	threshold float64
}

func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Normalize rewrites each word of name to the closest word appearing in the
// session vocabulary, when one is close enough. Unmatched words are kept
// verbatim.
func (m *Matcher) Normalize(name string, vocabulary []string) string {
	words := vocabularyWords(vocabulary)
	if len(words) == 0 {
		return name
	}

	in := strings.Fields(name)
	out := make([]string, len(in))
	for i, w := range in {
		out[i] = m.closest(w, words)
	}
	return strings.Join(out, " ")
}

func (m *Matcher) closest(word string, words []string) string {
	best := word
	bestRatio := m.threshold
	for _, cand := range words {
		if cand == word {
			return word
		}
		if r := similarity(word, cand); r >= bestRatio {
			best = cand
			bestRatio = r
		}
	}
	return best
}

// similarity maps edit distance onto [0,1]: identical strings score 1.
func similarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func vocabularyWords(names []string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, n := range names {
		for _, w := range strings.Fields(n) {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	return words
}

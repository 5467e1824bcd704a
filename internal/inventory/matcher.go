package inventory

import (
	"regexp"
	"sort"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// normalizeName lowercases and collapses whitespace for fuzzy comparison.
func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = multiSpace.ReplaceAllString(n, " ")
	return n
}

// Matcher suggests close product-name matches for lookups that missed.
type Matcher struct {
	Threshold      float64
	MaxSuggestions int
}

// Suggest returns up to MaxSuggestions candidate names whose similarity to
// query meets the threshold, best first.
func (m Matcher) Suggest(query string, candidates []string) []string {
	type scored struct {
		name  string
		score float64
	}

	var hits []scored
	for _, c := range candidates {
		if s := nameSimilarity(query, c); s >= m.Threshold {
			hits = append(hits, scored{name: c, score: s})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name < hits[j].name
	})

	max := m.MaxSuggestions
	if max <= 0 {
		max = 3
	}
	if len(hits) > max {
		hits = hits[:max]
	}

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}

// nameSimilarity computes Jaccard similarity on normalized word sets.
func nameSimilarity(a, b string) float64 {
	wordsA := wordSet(normalizeName(a))
	wordsB := wordSet(normalizeName(b))

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}

	union := len(wordsA)
	for w := range wordsB {
		if !wordsA[w] {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

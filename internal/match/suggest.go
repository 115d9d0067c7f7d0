package match

import (
	"cmp"
	"slices"
)

// MinSimilarity is the lowest Similarity a candidate needs to be suggested.
const MinSimilarity = 0.5

// MaxSuggestions caps the number of names returned by Suggest.
const MaxSuggestions = 3

// Suggest returns the candidates closest to name, best first. Candidates
// below MinSimilarity and name itself are left out. Ties keep candidate order.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if score := Similarity(name, c); score >= MinSimilarity {
			ranked = append(ranked, scored{name: c, score: score})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	var out []string

	for _, r := range ranked {
		if len(out) == MaxSuggestions {
			break
		}

		if !slices.Contains(out, r.name) {
			out = append(out, r.name)
		}
	}

	return out
}

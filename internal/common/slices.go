package common

import "slices"

// Dedup returns the elements of s without repetitions, keeping the first
// occurrence of each element in its original position.
func Dedup[S ~[]E, E comparable](s S) S {
	if len(s) == 0 {
		return nil
	}

	seen := make(map[E]struct{}, len(s))
	out := make(S, 0, len(s))

	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Difference returns the elements of a that are not in b, in a's order.
func Difference[S ~[]E, E comparable](a, b S) S {
	var out S

	for _, v := range a {
		if !slices.Contains(b, v) {
			out = append(out, v)
		}
	}

	return out
}

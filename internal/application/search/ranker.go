package search

import "github.com/shopscout/backend/internal/domain/search"

// DefaultRankDecay is the score lost per position
const DefaultRankDecay = 0.01

// Rank attaches a positional score, max(0, 1 - rank*decay), and truncates to limit.
// Order is preserved. The input slice is not modified.
func Rank(items []search.CanonicalProduct, limit int, decay float64) []search.CanonicalProduct {
	if limit < 0 {
		limit = 0
	}
	n := min(len(items), limit)

	out := make([]search.CanonicalProduct, n)
	for i := 0; i < n; i++ {
		out[i] = items[i]
		out[i].Score = max(0, 1-float64(i)*decay)
	}
	return out
}

package search

import (
	"fmt"
	"testing"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products(n int) []search.CanonicalProduct {
	out := make([]search.CanonicalProduct, n)
	for i := range out {
		out[i] = search.CanonicalProduct{Title: fmt.Sprintf("p%d", i)}
	}
	return out
}

func TestRank(t *testing.T) {
	items := products(5)
	out := Rank(items, 3, 0.1)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"p0", "p1", "p2"}, []string{out[0].Title, out[1].Title, out[2].Title})
	assert.InDelta(t, 1.0, out[0].Score, 1e-9)
	assert.InDelta(t, 0.9, out[1].Score, 1e-9)
	assert.InDelta(t, 0.8, out[2].Score, 1e-9)
	assert.Zero(t, items[1].Score, "input must not be modified")
}

func TestRank_ScoreFloorsAtZero(t *testing.T) {
	out := Rank(products(4), 10, 0.5)
	require.Len(t, out, 4)
	assert.Equal(t, 0.0, out[2].Score)
	assert.Equal(t, 0.0, out[3].Score)
}

func TestRank_Limit(t *testing.T) {
	for _, limit := range []int{-1, 0, 1, 5, 100} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			out := Rank(products(5), limit, DefaultRankDecay)
			assert.LessOrEqual(t, len(out), max(limit, 0))
			assert.NotNil(t, out)
		})
	}
}

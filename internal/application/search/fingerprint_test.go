package search

import (
	"strings"
	"testing"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and collapses", "  red   running\tshoes ", "red running shoes"},
		{"folds case", "iPhone 15 PRO", "iphone 15 pro"},
		{"folds full width", "ＮＩＫＥ　Ａｉｒ", "nike air"},
		{"keeps cjk", "连衣裙 夏季", "连衣裙 夏季"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.in))
		})
	}
}

func TestFingerprint(t *testing.T) {
	policy := search.DefaultLimitPolicy()
	build := func(q string, limit int, region search.Region, token string) search.SearchRequest {
		req, err := search.NewSearchRequest(q, limit, region, token, policy)
		require.NoError(t, err)
		return req
	}

	base := Fingerprint(build("Red Shoes", 10, search.Region{Country: "US"}, ""))
	assert.True(t, strings.HasPrefix(base, "search:"+FingerprintVersion+":"))

	t.Run("equivalent queries share a key", func(t *testing.T) {
		assert.Equal(t, base, Fingerprint(build("  red   SHOES ", 10, search.Region{Country: "us"}, "")))
	})

	t.Run("caller token is excluded", func(t *testing.T) {
		assert.Equal(t, base, Fingerprint(build("red shoes", 10, search.Region{Country: "US"}, "token-123")))
	})

	t.Run("limit changes the key", func(t *testing.T) {
		assert.NotEqual(t, base, Fingerprint(build("red shoes", 11, search.Region{Country: "US"}, "")))
	})

	t.Run("region changes the key", func(t *testing.T) {
		assert.NotEqual(t, base, Fingerprint(build("red shoes", 10, search.Region{Country: "US", City: "Austin"}, "")))
		assert.NotEqual(t, base, Fingerprint(build("red shoes", 10, search.Region{Country: "GB"}, "")))
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		assert.NotEqual(t,
			Fingerprint(build("shoes|limit=20|country=us", 20, search.Region{}, "")),
			Fingerprint(build("shoes", 20, search.Region{Country: "us|limit=20|country="}, "")),
		)
		assert.NotEqual(t,
			Fingerprint(build("a|limit=20|country=|state=|city=b", 20, search.Region{}, "")),
			Fingerprint(build("a", 20, search.Region{City: "b|limit=20|country=|state=|city="}, "")),
		)
		assert.NotEqual(t,
			Fingerprint(build("bag", 20, search.Region{State: "ny", City: ""}, "")),
			Fingerprint(build("bag", 20, search.Region{State: "", City: "ny"}, "")),
		)
		assert.NotEqual(t,
			Fingerprint(build("bag", 20, search.Region{State: "1:a", City: ""}, "")),
			Fingerprint(build("bag", 20, search.Region{State: "", City: "a"}, "")),
		)
	})

	t.Run("default limit is applied before hashing", func(t *testing.T) {
		assert.Equal(t,
			Fingerprint(build("socks", 0, search.Region{}, "")),
			Fingerprint(build("socks", search.DefaultResultLimit, search.Region{}, "")),
		)
	})
}

package cache

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopspring/decimal"
)

// newTestResult builds a deterministic composite result with n items
func newTestResult(seed uint64, n int) *search.CompositeResult {
	faker := gofakeit.New(seed)

	items := make([]search.CanonicalProduct, 0, n)
	for i := 0; i < n; i++ {
		price := decimal.NewFromFloat(faker.Price(1, 500)).Round(2)
		items = append(items, search.CanonicalProduct{
			ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(faker.URL())),
			Title:       faker.ProductName(),
			Brand:       faker.Company(),
			Category:    faker.ProductCategory(),
			Price:       &price,
			Currency:    "USD",
			Marketplace: search.ProviderEbay,
			SourceURL:   faker.URL(),
			Metadata:    map[string]any{"rank": float64(i)},
		})
	}

	outcomes := []search.ProviderOutcome{
		search.NewSuccessOutcome(search.ProviderEbay, n, n, 120*time.Millisecond),
		search.NewFailureOutcome(search.ProviderOLX, search.ErrProviderTimeout, true, time.Second),
	}
	return search.NewCompositeResult("search:v1:test", items, outcomes, 1100*time.Millisecond)
}

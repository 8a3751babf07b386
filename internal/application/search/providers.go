package search

import "github.com/shopscout/backend/internal/domain/search"

// AdapterFactory builds provider adapters
type AdapterFactory interface {
	Enabled(id search.ProviderID) bool
	Build(id search.ProviderID, cred *search.MarketplaceCredential) (search.Adapter, error)
}

// SpecsFromFactory registers the given providers, in order, using factory
func SpecsFromFactory(factory AdapterFactory, ids ...search.ProviderID) []ProviderSpec {
	if len(ids) == 0 {
		ids = search.KnownProviders()
	}
	specs := make([]ProviderSpec, 0, len(ids))
	for _, id := range ids {
		specs = append(specs, ProviderSpec{
			ID:      id,
			Enabled: factory.Enabled(id),
			Build: func(cred *search.MarketplaceCredential) (search.Adapter, error) {
				return factory.Build(id, cred)
			},
		})
	}
	return specs
}

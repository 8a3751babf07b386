package search

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CanonicalProduct is the provider-neutral product representation.
// ID together with Marketplace identifies a product within a provider; ID is derived
// deterministically from the listing's stable fields.
type CanonicalProduct struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Brand       string           `json:"brand,omitempty"`
	Category    string           `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price"`
	Currency    string           `json:"currency,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Marketplace ProviderID       `json:"marketplace"`
	SourceURL   string           `json:"source_url"`
	Description string           `json:"description,omitempty"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	Score       float64          `json:"score"`
}

// HasPrice reports whether the provider supplied a usable price
func (p CanonicalProduct) HasPrice() bool {
	return p.Price != nil
}

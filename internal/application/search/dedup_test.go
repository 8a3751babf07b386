package search

import (
	"testing"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/assert"
)

func product(provider search.ProviderID, title, url string) search.CanonicalProduct {
	return search.CanonicalProduct{Title: title, Marketplace: provider, SourceURL: url}
}

func TestDedup_FirstSeenWins(t *testing.T) {
	lists := [][]search.CanonicalProduct{
		{
			product(search.ProviderEbay, "a", "https://shop.com/item/1"),
			product(search.ProviderEbay, "b", "https://shop.com/item/2"),
		},
		{
			product(search.ProviderOLX, "a-dup", "http://www.shop.com/item/1/?utm_source=olx"),
			product(search.ProviderOLX, "c", "https://shop.com/item/3"),
		},
	}

	out := Dedup(lists)
	assert.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Title)
	assert.Equal(t, search.ProviderEbay, out[0].Marketplace)
	assert.Equal(t, "b", out[1].Title)
	assert.Equal(t, "c", out[2].Title)
}

func TestDedup_KeepsItemsWithoutKey(t *testing.T) {
	out := Dedup([][]search.CanonicalProduct{
		{product(search.ProviderEbay, "x", ""), product(search.ProviderEbay, "y", "not a url")},
		{product(search.ProviderOLX, "x", "")},
	})
	assert.Len(t, out, 3)
}

func TestDedup_Idempotent(t *testing.T) {
	lists := [][]search.CanonicalProduct{
		{
			product(search.ProviderEbay, "a", "https://shop.com/item/1"),
			product(search.ProviderEbay, "a-again", "https://shop.com/item/1#top"),
			product(search.ProviderEbay, "nokey", ""),
		},
		{product(search.ProviderOLX, "b", "https://shop.com/item/2")},
	}

	once := Dedup(lists)
	twice := Dedup([][]search.CanonicalProduct{once})
	assert.Equal(t, once, twice)
}

func TestDedup_Empty(t *testing.T) {
	assert.Empty(t, Dedup(nil))
	assert.Empty(t, Dedup([][]search.CanonicalProduct{nil, {}}))
}

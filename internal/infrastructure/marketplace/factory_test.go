package marketplace

import (
	"testing"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_Build(t *testing.T) {
	f := NewFactory(config.MarketplaceConfig{
		Taobao: config.ProviderConfig{Enabled: true, APIKey: "k", APISecret: "s", AdzoneID: "1"},
		Douyin: config.ProviderConfig{Enabled: false},
		Ebay:   config.ProviderConfig{Enabled: true, Token: "t", DefaultCountry: "GB"},
		OLX:    config.ProviderConfig{Enabled: true, APIKey: "k", DefaultCity: "Gdańsk"},
	})

	assert.True(t, f.Enabled(search.ProviderTaobao))
	assert.False(t, f.Enabled(search.ProviderDouyin))
	assert.False(t, f.Enabled("amazon"))

	for _, id := range []search.ProviderID{search.ProviderTaobao, search.ProviderEbay, search.ProviderOLX} {
		adapter, err := f.Build(id, nil)
		require.NoError(t, err, id)
		assert.Equal(t, id, adapter.Name())
	}

	adapter, err := f.Build(search.ProviderDouyin, nil)
	assert.ErrorIs(t, err, search.ErrProviderNotConfigured)
	assert.Nil(t, adapter, "a failed build must return a nil interface")

	_, err = f.Build("amazon", nil)
	assert.ErrorIs(t, err, search.ErrUnknownProvider)
}

func TestFactory_BuildWithCredential(t *testing.T) {
	f := NewFactory(config.MarketplaceConfig{})

	_, err := f.Build(search.ProviderDouyin, nil)
	require.ErrorIs(t, err, search.ErrProviderNotConfigured)

	adapter, err := f.Build(search.ProviderDouyin, &search.MarketplaceCredential{
		Provider:  search.ProviderDouyin,
		Enabled:   true,
		APIKey:    "db-key",
		APISecret: "db-secret",
		Token:     "db-token",
	})
	require.NoError(t, err)
	douyin, ok := adapter.(*DouyinAdapter)
	require.True(t, ok)
	assert.Equal(t, "db-key", douyin.config.AppKey)
	assert.Equal(t, DouyinProductionAPIURL, douyin.config.APIBaseURL)
}

func TestFactory_DefaultCurrencies(t *testing.T) {
	f := NewFactory(config.MarketplaceConfig{
		OLX:  config.ProviderConfig{Currency: "uah"},
		Ebay: config.ProviderConfig{Currency: "GBP"},
	})

	assert.Equal(t, map[search.ProviderID]string{
		search.ProviderTaobao: "CNY",
		search.ProviderDouyin: "CNY",
		search.ProviderEbay:   "GBP",
		search.ProviderOLX:    "UAH",
	}, f.DefaultCurrencies())
}

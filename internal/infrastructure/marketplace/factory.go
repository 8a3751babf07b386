package marketplace

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/infrastructure/config"
)

// Factory builds adapters from static configuration plus optional stored credentials
type Factory struct {
	config    config.MarketplaceConfig
	transport http.RoundTripper
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithTransport sets the HTTP transport used by every adapter
func WithTransport(rt http.RoundTripper) FactoryOption {
	return func(f *Factory) {
		f.transport = rt
	}
}

// NewFactory creates an adapter factory
func NewFactory(cfg config.MarketplaceConfig, opts ...FactoryOption) *Factory {
	f := &Factory{config: cfg}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Enabled reports whether the provider is switched on in static configuration
func (f *Factory) Enabled(id search.ProviderID) bool {
	pc, ok := f.providerConfig(id)
	return ok && pc.Enabled
}

// Build creates the adapter for a provider, overlaying cred when it is not nil.
// An invalid configuration yields an error wrapping ErrProviderNotConfigured.
func (f *Factory) Build(id search.ProviderID, cred *search.MarketplaceCredential) (search.Adapter, error) {
	pc, ok := f.providerConfig(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", search.ErrUnknownProvider, id)
	}
	opts := ClientOptions{
		Timeout:   pc.Timeout,
		RateLimit: pc.RateLimit,
		RateBurst: pc.RateBurst,
		Transport: f.transport,
	}

	switch id {
	case search.ProviderTaobao:
		cfg := TaobaoConfig{
			AppKey:     pc.APIKey,
			AppSecret:  pc.APISecret,
			AdzoneID:   pc.AdzoneID,
			SessionKey: pc.Token,
			APIBaseURL: pc.BaseURL,
		}.WithCredential(cred)
		adapter, err := NewTaobaoAdapter(cfg, opts)
		return adapterOrErr(adapter, err)
	case search.ProviderDouyin:
		cfg := DouyinConfig{
			AppKey:      pc.APIKey,
			AppSecret:   pc.APISecret,
			AccessToken: pc.Token,
			APIBaseURL:  pc.BaseURL,
		}.WithCredential(cred)
		adapter, err := NewDouyinAdapter(cfg, opts)
		return adapterOrErr(adapter, err)
	case search.ProviderEbay:
		cfg := EbayConfig{
			Token:          pc.Token,
			APIBaseURL:     pc.BaseURL,
			DefaultCountry: pc.DefaultCountry,
			CampaignID:     pc.AdzoneID,
		}.WithCredential(cred)
		adapter, err := NewEbayAdapter(cfg, opts)
		return adapterOrErr(adapter, err)
	case search.ProviderOLX:
		cfg := OLXConfig{
			APIKey:      pc.APIKey,
			APIBaseURL:  pc.BaseURL,
			DefaultCity: pc.DefaultCity,
			Currency:    pc.Currency,
		}.WithCredential(cred)
		adapter, err := NewOLXAdapter(cfg, opts)
		return adapterOrErr(adapter, err)
	}
	return nil, fmt.Errorf("%w: %s", search.ErrUnknownProvider, id)
}

// DefaultCurrencies returns the currency assumed for items that carry none,
// per provider. Configured values win over each marketplace's home currency.
func (f *Factory) DefaultCurrencies() map[search.ProviderID]string {
	defaults := map[search.ProviderID]string{
		search.ProviderTaobao: taobaoCurrency,
		search.ProviderDouyin: douyinCurrency,
		search.ProviderEbay:   ebayDefaultCurrency,
		search.ProviderOLX:    olxDefaultCurrency,
	}
	for id := range defaults {
		if pc, ok := f.providerConfig(id); ok && pc.Currency != "" {
			defaults[id] = strings.ToUpper(pc.Currency)
		}
	}
	return defaults
}

func (f *Factory) providerConfig(id search.ProviderID) (config.ProviderConfig, bool) {
	switch id {
	case search.ProviderTaobao:
		return f.config.Taobao, true
	case search.ProviderDouyin:
		return f.config.Douyin, true
	case search.ProviderEbay:
		return f.config.Ebay, true
	case search.ProviderOLX:
		return f.config.OLX, true
	}
	return config.ProviderConfig{}, false
}

// adapterOrErr avoids returning a typed nil inside a non-nil interface
func adapterOrErr[T search.Adapter](adapter T, err error) (search.Adapter, error) {
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

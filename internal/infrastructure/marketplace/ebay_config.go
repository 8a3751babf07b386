package marketplace

import (
	"errors"
	"strings"

	"github.com/shopscout/backend/internal/domain/search"
)

// EbayConfig holds configuration for the eBay Browse API
type EbayConfig struct {
	// Token is an application OAuth access token
	Token string
	// APIBaseURL is the API host
	APIBaseURL string
	// DefaultCountry picks the marketplace when the request carries no country
	DefaultCountry string
	// CampaignID enables affiliate attribution when set
	CampaignID string
}

const (
	// EbayProductionAPIURL is the production API endpoint
	EbayProductionAPIURL = "https://api.ebay.com"
	// EbaySandboxAPIURL is the sandbox API endpoint
	EbaySandboxAPIURL = "https://api.sandbox.ebay.com"

	ebaySearchPath       = "/buy/browse/v1/item_summary/search"
	ebayMarketplaceHdr   = "X-EBAY-C-MARKETPLACE-ID"
	ebayEndUserCtxHdr    = "X-EBAY-C-ENDUSERCTX"
	ebayDefaultCountry   = "US"
	ebayMaxPageSize      = 200
	ebayFallbackMarket   = "EBAY_US"
	ebayDefaultCurrency  = "USD"
	ebayCampaignCtxField = "affiliateCampaignId"
)

// ebayMarketplaces maps ISO country codes onto eBay marketplace ids
var ebayMarketplaces = map[string]string{
	"US": "EBAY_US",
	"GB": "EBAY_GB",
	"UK": "EBAY_GB",
	"DE": "EBAY_DE",
	"AU": "EBAY_AU",
	"CA": "EBAY_CA",
	"FR": "EBAY_FR",
	"IT": "EBAY_IT",
	"ES": "EBAY_ES",
	"AT": "EBAY_AT",
	"CH": "EBAY_CH",
	"IE": "EBAY_IE",
	"NL": "EBAY_NL",
	"PL": "EBAY_PL",
	"BE": "EBAY_BE",
	"HK": "EBAY_HK",
	"SG": "EBAY_SG",
}

// Errors for eBay configuration
var (
	ErrEbayConfigMissingToken   = errors.New("ebay: oauth token is required")
	ErrEbayConfigInvalidCountry = errors.New("ebay: default country has no marketplace")
)

// WithCredential returns a copy of the config with non-empty credential fields applied
func (c EbayConfig) WithCredential(cred *search.MarketplaceCredential) EbayConfig {
	if cred == nil {
		return c
	}
	c.Token = overlay(c.Token, cred.Token)
	c.APIBaseURL = overlay(c.APIBaseURL, cred.Endpoint)
	return c
}

// Validate validates the eBay configuration and fills defaults
func (c *EbayConfig) Validate() error {
	if c.Token == "" {
		return ErrEbayConfigMissingToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = EbayProductionAPIURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.DefaultCountry == "" {
		c.DefaultCountry = ebayDefaultCountry
	}
	c.DefaultCountry = strings.ToUpper(c.DefaultCountry)
	if _, ok := ebayMarketplaces[c.DefaultCountry]; !ok {
		return ErrEbayConfigInvalidCountry
	}
	return nil
}

// MarketplaceID returns the eBay marketplace for a country, falling back to the default country
func (c *EbayConfig) MarketplaceID(country string) string {
	if id, ok := ebayMarketplaces[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return id
	}
	if id, ok := ebayMarketplaces[c.DefaultCountry]; ok {
		return id
	}
	return ebayFallbackMarket
}

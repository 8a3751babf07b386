package marketplace

import (
	"errors"
	"strings"

	"github.com/shopscout/backend/internal/domain/search"
)

// OLXConfig holds configuration for the OLX classifieds search API
type OLXConfig struct {
	// APIKey is sent in the X-Api-Key header
	APIKey string
	// APIBaseURL is the site API host, e.g. https://www.olx.pl
	APIBaseURL string
	// DefaultCity is used when the request carries no city
	DefaultCity string
	// Currency is reported when a listing price carries none
	Currency string
}

const (
	// OLXProductionAPIURL is the production API endpoint
	OLXProductionAPIURL = "https://www.olx.pl"

	olxSearchPath      = "/api/v1/offers/"
	olxAPIKeyHeader    = "X-Api-Key"
	olxDefaultCity     = "warszawa"
	olxDefaultCurrency = "PLN"
	olxMaxPageSize     = 50
	olxPhotoSize       = "1000x1000"
)

// Errors for OLX configuration
var (
	ErrOLXConfigMissingAPIKey = errors.New("olx: api key is required")
)

// WithCredential returns a copy of the config with non-empty credential fields applied
func (c OLXConfig) WithCredential(cred *search.MarketplaceCredential) OLXConfig {
	if cred == nil {
		return c
	}
	c.APIKey = overlay(c.APIKey, cred.APIKey)
	c.APIBaseURL = overlay(c.APIBaseURL, cred.Endpoint)
	return c
}

// Validate validates the OLX configuration and fills defaults
func (c *OLXConfig) Validate() error {
	if c.APIKey == "" {
		return ErrOLXConfigMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = OLXProductionAPIURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.DefaultCity == "" {
		c.DefaultCity = olxDefaultCity
	}
	if c.Currency == "" {
		c.Currency = olxDefaultCurrency
	}
	return nil
}

// CitySlug converts a city name into the slug the API filters by
func CitySlug(city string) string {
	city = strings.ToLower(strings.TrimSpace(city))
	var b strings.Builder
	dash := false
	for _, r := range city {
		if r2, ok := polishFold[r]; ok {
			r = r2
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var polishFold = map[rune]rune{
	'ą': 'a', 'ć': 'c', 'ę': 'e', 'ł': 'l', 'ń': 'n',
	'ó': 'o', 'ś': 's', 'ź': 'z', 'ż': 'z',
}

package marketplace

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/shopscout/backend/internal/domain/search"
)

// DouyinConfig holds configuration for the Douyin shop (jinritemai) open API
type DouyinConfig struct {
	// AppKey is the application key from Douyin open platform
	AppKey string
	// AppSecret is the application secret from Douyin open platform
	AppSecret string
	// AccessToken authorizes the calls
	AccessToken string
	// APIBaseURL is the base URL for Douyin API
	APIBaseURL string
}

const (
	// DouyinProductionAPIURL is the production API endpoint
	DouyinProductionAPIURL = "https://openapi-fxg.jinritemai.com"

	douyinSearchMethod = "alliance.materialsProductsSearch"
	douyinSearchPath   = "/alliance/materialsProductsSearch"
	douyinAPIVersion   = "2"
	douyinCurrency     = "CNY"
	douyinMaxPageSize  = 20

	// centsPerYuan is the conversion factor from fen to yuan
	centsPerYuan = 100
)

// Errors for Douyin configuration
var (
	ErrDouyinConfigMissingAppKey      = errors.New("douyin: app key is required")
	ErrDouyinConfigMissingAppSecret   = errors.New("douyin: app secret is required")
	ErrDouyinConfigMissingAccessToken = errors.New("douyin: access token is required")
)

// WithCredential returns a copy of the config with non-empty credential fields applied
func (c DouyinConfig) WithCredential(cred *search.MarketplaceCredential) DouyinConfig {
	if cred == nil {
		return c
	}
	c.AppKey = overlay(c.AppKey, cred.APIKey)
	c.AppSecret = overlay(c.AppSecret, cred.APISecret)
	c.AccessToken = overlay(c.AccessToken, cred.Token)
	c.APIBaseURL = overlay(c.APIBaseURL, cred.Endpoint)
	return c
}

// Validate validates the Douyin configuration and fills defaults
func (c *DouyinConfig) Validate() error {
	if c.AppKey == "" {
		return ErrDouyinConfigMissingAppKey
	}
	if c.AppSecret == "" {
		return ErrDouyinConfigMissingAppSecret
	}
	if c.AccessToken == "" {
		return ErrDouyinConfigMissingAccessToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DouyinProductionAPIURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return nil
}

// Sign generates the request signature:
// HMAC-SHA256(secret, secret + "app_key" + key + "method" + method + "param_json" + json + "timestamp" + ts + "v" + v + secret)
func (c *DouyinConfig) Sign(method, paramJSON, timestamp, version string) string {
	var builder strings.Builder
	builder.WriteString(c.AppSecret)
	builder.WriteString("app_key")
	builder.WriteString(c.AppKey)
	builder.WriteString("method")
	builder.WriteString(method)
	builder.WriteString("param_json")
	builder.WriteString(paramJSON)
	builder.WriteString("timestamp")
	builder.WriteString(timestamp)
	builder.WriteString("v")
	builder.WriteString(version)
	builder.WriteString(c.AppSecret)

	h := hmac.New(sha256.New, []byte(c.AppSecret))
	h.Write([]byte(builder.String()))
	return hex.EncodeToString(h.Sum(nil))
}

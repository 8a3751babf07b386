package marketplace

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"sort"
	"strings"

	"github.com/shopscout/backend/internal/domain/search"
)

// TaobaoConfig holds configuration for the Taobao affiliate (tbk) search API
type TaobaoConfig struct {
	// AppKey is the application key from Taobao open platform
	AppKey string
	// AppSecret is the application secret from Taobao open platform
	AppSecret string
	// AdzoneID is the affiliate ad zone the searches are attributed to
	AdzoneID string
	// SessionKey is optional for material search
	SessionKey string
	// APIBaseURL is the router endpoint
	APIBaseURL string
}

const (
	// TaobaoProductionAPIURL is the production API endpoint
	TaobaoProductionAPIURL = "https://gw.api.taobao.com/router/rest"

	taobaoSearchMethod = "taobao.tbk.dg.material.optional"
	taobaoCurrency     = "CNY"
	taobaoMaxPageSize  = 100
)

// Errors for Taobao configuration
var (
	ErrTaobaoConfigMissingAppKey    = errors.New("taobao: app key is required")
	ErrTaobaoConfigMissingAppSecret = errors.New("taobao: app secret is required")
	ErrTaobaoConfigMissingAdzoneID  = errors.New("taobao: adzone id is required")
)

// WithCredential returns a copy of the config with non-empty credential fields applied
func (c TaobaoConfig) WithCredential(cred *search.MarketplaceCredential) TaobaoConfig {
	if cred == nil {
		return c
	}
	c.AppKey = overlay(c.AppKey, cred.APIKey)
	c.AppSecret = overlay(c.AppSecret, cred.APISecret)
	c.SessionKey = overlay(c.SessionKey, cred.Token)
	c.APIBaseURL = overlay(c.APIBaseURL, cred.Endpoint)
	return c
}

// Validate validates the Taobao configuration and fills defaults
func (c *TaobaoConfig) Validate() error {
	if c.AppKey == "" {
		return ErrTaobaoConfigMissingAppKey
	}
	if c.AppSecret == "" {
		return ErrTaobaoConfigMissingAppSecret
	}
	if c.AdzoneID == "" {
		return ErrTaobaoConfigMissingAdzoneID
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = TaobaoProductionAPIURL
	}
	return nil
}

// Sign generates the request signature.
// Taobao's legacy router requires MD5(secret + sorted key/value pairs + secret), upper-cased.
func (c *TaobaoConfig) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "sign" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(c.AppSecret)
	for _, k := range keys {
		builder.WriteString(k)
		builder.WriteString(params[k])
	}
	builder.WriteString(c.AppSecret)

	hash := md5.Sum([]byte(builder.String()))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

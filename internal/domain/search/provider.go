package search

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// ProviderID identifies a marketplace integration
// ---------------------------------------------------------------------------

// ProviderID identifies a marketplace integration
type ProviderID string

const (
	// ProviderTaobao represents the Taobao/Tmall open platform
	ProviderTaobao ProviderID = "taobao"
	// ProviderDouyin represents the Douyin shop platform
	ProviderDouyin ProviderID = "douyin"
	// ProviderEbay represents the eBay Browse API
	ProviderEbay ProviderID = "ebay"
	// ProviderOLX represents the OLX classifieds platform
	ProviderOLX ProviderID = "olx"
)

// KnownProviders lists every supported provider in registry order
func KnownProviders() []ProviderID {
	return []ProviderID{ProviderTaobao, ProviderDouyin, ProviderEbay, ProviderOLX}
}

// ParseProviderID parses a provider name case-insensitively
func ParseProviderID(s string) (ProviderID, bool) {
	id := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	return id, id.IsValid()
}

// IsValid returns true if the provider id is a supported provider
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderTaobao, ProviderDouyin, ProviderEbay, ProviderOLX:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProviderID
func (p ProviderID) String() string {
	return string(p)
}

// DisplayName returns a human-readable name for the provider
func (p ProviderID) DisplayName() string {
	switch p {
	case ProviderTaobao:
		return "Taobao"
	case ProviderDouyin:
		return "Douyin"
	case ProviderEbay:
		return "eBay"
	case ProviderOLX:
		return "OLX"
	default:
		return string(p)
	}
}

// ---------------------------------------------------------------------------
// Adapter port
// ---------------------------------------------------------------------------

// RawResponse is the undecoded body a provider returned for one search call
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Latency     time.Duration
}

// RawItem is the loosely-typed intermediate item produced by an adapter's parse step.
// Only Title and URL are expected to be set; everything else is best-effort.
type RawItem struct {
	Title       string
	Brand       string
	Category    string
	Price       FlexString
	Currency    string
	ImageURL    string
	URL         string
	Description string
	Metadata    map[string]any
}

// Adapter is the port every marketplace integration implements.
// Implementations must not share mutable state and must report failures as *AdapterError.
type Adapter interface {
	// Name returns the provider identifier
	Name() ProviderID

	// Search issues the provider-specific call for the request
	Search(ctx context.Context, req SearchRequest) (RawResponse, error)

	// Parse maps the provider response into intermediate items
	Parse(raw RawResponse) ([]RawItem, error)
}

// ---------------------------------------------------------------------------
// FlexString
// ---------------------------------------------------------------------------

// FlexString decodes a JSON string, number or null into a string.
// Marketplaces disagree on whether prices are numbers or strings.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// Booleans and objects carry no usable price
		*f = ""
		return nil
	}
	// Exponent forms such as 1.5e2 are rewritten as plain decimals
	if d, err := decimal.NewFromString(n.String()); err == nil {
		*f = FlexString(d.String())
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying string
func (f FlexString) String() string {
	return string(f)
}

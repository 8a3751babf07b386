package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopscout/backend/internal/domain/search"
)

// OLXAdapter searches OLX classifieds in one city
type OLXAdapter struct {
	config OLXConfig
	http   *httpClient
}

// NewOLXAdapter creates a new OLX adapter with the given configuration
func NewOLXAdapter(config OLXConfig, opts ClientOptions) (*OLXAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrProviderNotConfigured, err)
	}
	return &OLXAdapter{
		config: config,
		http:   newHTTPClient(search.ProviderOLX, opts),
	}, nil
}

// Name returns the provider id
func (a *OLXAdapter) Name() search.ProviderID {
	return search.ProviderOLX
}

// Search queries offers in the request city, or the configured default city
func (a *OLXAdapter) Search(ctx context.Context, req search.SearchRequest) (search.RawResponse, error) {
	city := req.Region().City
	if city == "" {
		city = a.config.DefaultCity
	}

	query := url.Values{}
	query.Set("query", req.Query())
	query.Set("offset", "0")
	query.Set("limit", strconv.Itoa(min(req.Limit(), olxMaxPageSize)))
	if slug := CitySlug(city); slug != "" {
		query.Set("city", slug)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.APIBaseURL+olxSearchPath+"?"+query.Encode(), nil)
	if err != nil {
		return search.RawResponse{}, search.NewAdapterError(search.ProviderOLX, "search", err)
	}
	httpReq.Header.Set(olxAPIKeyHeader, a.config.APIKey)

	return a.http.do(ctx, httpReq)
}

// Parse decodes the offers response
func (a *OLXAdapter) Parse(raw search.RawResponse) ([]search.RawItem, error) {
	var resp OLXOffersResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return nil, search.NewAdapterError(search.ProviderOLX, "parse",
			fmt.Errorf("%w: %v", search.ErrProviderInvalidResponse, err))
	}
	if resp.Error != nil {
		return nil, search.NewAdapterError(search.ProviderOLX, "parse",
			fmt.Errorf("%w: %s: %s", search.ErrProviderBadStatus, resp.Error.Title, resp.Error.Detail))
	}

	items := make([]search.RawItem, 0, len(resp.Data))
	for _, offer := range resp.Data {
		items = append(items, a.convertOffer(offer))
	}
	return items, nil
}

// convertOffer maps an offer onto the intermediate item.
// The price label ("1 299 zł") is kept as-is for the normalizer.
func (a *OLXAdapter) convertOffer(o OLXOffer) search.RawItem {
	item := search.RawItem{
		Title:       o.Title,
		URL:         o.URL,
		Description: o.Description,
		Currency:    a.config.Currency,
		Metadata: map[string]any{
			"offer_id": o.ID.String(),
		},
	}

	for _, p := range o.Params {
		switch p.Key {
		case "price":
			item.Price = search.FlexString(p.Value.Label)
			if item.Price == "" {
				item.Price = p.Value.Value
			}
			if p.Value.Currency != "" {
				item.Currency = p.Value.Currency
			}
			if p.Value.Key != "" {
				item.Metadata["price_type"] = p.Value.Key
			}
		case "state":
			item.Metadata["condition"] = p.Value.Label
		case "brand", "marka":
			item.Brand = p.Value.Label
		}
	}

	if len(o.Photos) > 0 {
		item.ImageURL = strings.ReplaceAll(o.Photos[0].Link, "{width}x{height}", olxPhotoSize)
	}
	if o.Category != nil {
		item.Category = o.Category.Type
	}
	if o.Location != nil && o.Location.City != nil {
		item.Metadata["city"] = o.Location.City.Name
	}
	if o.Promotion != nil && o.Promotion.TopAd {
		item.Metadata["promoted"] = true
	}
	return item
}

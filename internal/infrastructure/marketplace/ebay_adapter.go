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

// EbayAdapter searches eBay listings through the Browse API
type EbayAdapter struct {
	config EbayConfig
	http   *httpClient
}

// NewEbayAdapter creates a new eBay adapter with the given configuration
func NewEbayAdapter(config EbayConfig, opts ClientOptions) (*EbayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrProviderNotConfigured, err)
	}
	return &EbayAdapter{
		config: config,
		http:   newHTTPClient(search.ProviderEbay, opts),
	}, nil
}

// Name returns the provider id
func (a *EbayAdapter) Name() search.ProviderID {
	return search.ProviderEbay
}

// Search issues a Browse API search against the marketplace of the request country.
// The caller token is forwarded so the listing set can be personalized.
func (a *EbayAdapter) Search(ctx context.Context, req search.SearchRequest) (search.RawResponse, error) {
	region := req.Region()
	country := region.Country
	if country == "" {
		country = a.config.DefaultCountry
	}

	query := url.Values{}
	query.Set("q", req.Query())
	query.Set("limit", strconv.Itoa(min(req.Limit(), ebayMaxPageSize)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.APIBaseURL+ebaySearchPath+"?"+query.Encode(), nil)
	if err != nil {
		return search.RawResponse{}, search.NewAdapterError(search.ProviderEbay, "search", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.config.Token)
	httpReq.Header.Set(ebayMarketplaceHdr, a.config.MarketplaceID(country))
	if endUserCtx := a.endUserContext(country, region); endUserCtx != "" {
		httpReq.Header.Set(ebayEndUserCtxHdr, endUserCtx)
	}
	if token := req.CallerToken(); token != "" {
		httpReq.Header.Set(CallerTokenHeader, token)
	}

	return a.http.do(ctx, httpReq)
}

// endUserContext builds the X-EBAY-C-ENDUSERCTX header value
func (a *EbayAdapter) endUserContext(country string, region search.Region) string {
	var parts []string
	if a.config.CampaignID != "" {
		parts = append(parts, ebayCampaignCtxField+"="+a.config.CampaignID)
	}
	if country != "" {
		loc := "country=" + strings.ToUpper(country)
		if region.State != "" {
			loc += ",state=" + region.State
		}
		parts = append(parts, "contextualLocation="+url.QueryEscape(loc))
	}
	return strings.Join(parts, ",")
}

// Parse decodes the search response
func (a *EbayAdapter) Parse(raw search.RawResponse) ([]search.RawItem, error) {
	var resp EbaySearchResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return nil, search.NewAdapterError(search.ProviderEbay, "parse",
			fmt.Errorf("%w: %v", search.ErrProviderInvalidResponse, err))
	}
	if len(resp.Errors) > 0 && len(resp.ItemSummaries) == 0 {
		e := resp.Errors[0]
		return nil, search.NewAdapterError(search.ProviderEbay, "parse",
			fmt.Errorf("%w: error %d: %s", search.ErrProviderBadStatus, e.ErrorID, e.Message))
	}

	items := make([]search.RawItem, 0, len(resp.ItemSummaries))
	for _, s := range resp.ItemSummaries {
		items = append(items, convertEbayItem(s))
	}
	return items, nil
}

// convertEbayItem maps a listing onto the intermediate item
func convertEbayItem(s EbayItemSummary) search.RawItem {
	item := search.RawItem{
		Title:       s.Title,
		URL:         s.ItemWebURL,
		Description: s.ShortDescription,
		Currency:    ebayDefaultCurrency,
		Metadata: map[string]any{
			"item_id":   s.ItemID,
			"condition": s.Condition,
		},
	}

	price := s.Price
	if price == nil {
		price = s.CurrentBidPrice
	}
	if price != nil {
		item.Price = price.Value
		if price.Currency != "" {
			item.Currency = price.Currency
		}
	}
	if s.Image != nil {
		item.ImageURL = s.Image.ImageURL
	} else if len(s.ThumbnailImages) > 0 {
		item.ImageURL = s.ThumbnailImages[0].ImageURL
	}
	if len(s.Categories) > 0 {
		item.Category = s.Categories[0].CategoryName
	}
	if s.Seller != nil {
		item.Metadata["seller"] = s.Seller.Username
		item.Metadata["seller_feedback"] = s.Seller.FeedbackPercentage.String()
	}
	if s.ItemLocation != nil {
		item.Metadata["location"] = s.ItemLocation.Country
	}
	if s.ItemAffiliateURL != "" {
		item.Metadata["affiliate_url"] = s.ItemAffiliateURL
	}
	if len(s.BuyingOptions) > 0 {
		item.Metadata["buying_options"] = s.BuyingOptions
	}
	return item
}

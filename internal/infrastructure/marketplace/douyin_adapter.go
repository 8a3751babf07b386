package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopspring/decimal"
)

// DouyinAdapter searches Douyin shop products through the alliance material API
type DouyinAdapter struct {
	config DouyinConfig
	http   *httpClient
	now    func() time.Time
}

// NewDouyinAdapter creates a new Douyin adapter with the given configuration
func NewDouyinAdapter(config DouyinConfig, opts ClientOptions) (*DouyinAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrProviderNotConfigured, err)
	}
	return &DouyinAdapter{
		config: config,
		http:   newHTTPClient(search.ProviderDouyin, opts),
		now:    time.Now,
	}, nil
}

// Name returns the provider id
func (a *DouyinAdapter) Name() search.ProviderID {
	return search.ProviderDouyin
}

// Search posts a signed JSON product search
func (a *DouyinAdapter) Search(ctx context.Context, req search.SearchRequest) (search.RawResponse, error) {
	params := map[string]any{
		"title":     req.Query(),
		"page":      1,
		"page_size": min(req.Limit(), douyinMaxPageSize),
		"sort_by":   0,
	}
	paramJSON, err := json.Marshal(params)
	if err != nil {
		return search.RawResponse{}, search.NewAdapterError(search.ProviderDouyin, "search", err)
	}

	timestamp := strconv.FormatInt(a.now().Unix(), 10)
	sign := a.config.Sign(douyinSearchMethod, string(paramJSON), timestamp, douyinAPIVersion)

	body, err := json.Marshal(map[string]any{
		"app_key":      a.config.AppKey,
		"access_token": a.config.AccessToken,
		"method":       douyinSearchMethod,
		"param_json":   string(paramJSON),
		"timestamp":    timestamp,
		"v":            douyinAPIVersion,
		"sign":         sign,
		"sign_method":  "hmac-sha256",
	})
	if err != nil {
		return search.RawResponse{}, search.NewAdapterError(search.ProviderDouyin, "search", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL+douyinSearchPath, bytes.NewReader(body))
	if err != nil {
		return search.RawResponse{}, search.NewAdapterError(search.ProviderDouyin, "search", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return a.http.do(ctx, httpReq)
}

// Parse decodes the product search response
func (a *DouyinAdapter) Parse(raw search.RawResponse) ([]search.RawItem, error) {
	var resp DouyinProductSearchResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return nil, search.NewAdapterError(search.ProviderDouyin, "parse",
			fmt.Errorf("%w: %v", search.ErrProviderInvalidResponse, err))
	}
	if !resp.IsSuccess() {
		sentinel := search.ErrProviderBadStatus
		if resp.IsRateLimited() {
			sentinel = search.ErrProviderRateLimited
		}
		return nil, search.NewAdapterError(search.ProviderDouyin, "parse",
			fmt.Errorf("%w: err_no %d code %d: %s (log_id %s)", sentinel, resp.ErrNo, resp.Code, resp.Message, resp.LogID))
	}
	if resp.Data == nil {
		return []search.RawItem{}, nil
	}

	items := make([]search.RawItem, 0, len(resp.Data.Products))
	for _, p := range resp.Data.Products {
		items = append(items, convertDouyinProduct(p))
	}
	return items, nil
}

// convertDouyinProduct maps a product onto the intermediate item
func convertDouyinProduct(p DouyinProduct) search.RawItem {
	var price search.FlexString
	if fen, ok := douyinFen(p.Price); ok {
		if coupon, ok := douyinFen(p.CouponPrice); ok && coupon.LessThan(fen) {
			fen = coupon
		}
		price = search.FlexString(fen.Div(decimal.NewFromInt(centsPerYuan)).StringFixed(2))
	}
	category := p.SecondCname
	if category == "" {
		category = p.FirstCname
	}
	link := p.DetailURL
	if link == "" && p.ProductID != "" {
		link = "https://haohuo.jinritemai.com/views/product/detail?id=" + p.ProductID.String()
	}

	return search.RawItem{
		Title:       p.Title,
		Brand:       p.BrandName,
		Category:    category,
		Price:       price,
		Currency:    douyinCurrency,
		ImageURL:    p.Cover,
		URL:         link,
		Description: p.SellingPoint,
		Metadata: map[string]any{
			"product_id": p.ProductID.String(),
			"shop":       p.ShopName,
			"shop_id":    p.ShopID.String(),
			"sales":      p.Sales.String(),
			"in_stock":   p.InStock,
		},
	}
}

// douyinFen parses a positive fen amount. Anything else means no price.
func douyinFen(v search.FlexString) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(v.String())
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

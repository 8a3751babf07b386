package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
)

// TaobaoAdapter searches Taobao/Tmall listings through the affiliate material API
type TaobaoAdapter struct {
	config TaobaoConfig
	http   *httpClient
	now    func() time.Time
}

// NewTaobaoAdapter creates a new Taobao adapter with the given configuration
func NewTaobaoAdapter(config TaobaoConfig, opts ClientOptions) (*TaobaoAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrProviderNotConfigured, err)
	}
	return &TaobaoAdapter{
		config: config,
		http:   newHTTPClient(search.ProviderTaobao, opts),
		now:    time.Now,
	}, nil
}

// Name returns the provider id
func (a *TaobaoAdapter) Name() search.ProviderID {
	return search.ProviderTaobao
}

// Search posts a signed material search. Region is ignored by this provider.
func (a *TaobaoAdapter) Search(ctx context.Context, req search.SearchRequest) (search.RawResponse, error) {
	params := map[string]string{
		"method":      taobaoSearchMethod,
		"app_key":     a.config.AppKey,
		"timestamp":   a.now().In(shanghai).Format("2006-01-02 15:04:05"),
		"format":      "json",
		"v":           "2.0",
		"sign_method": "md5",
		"simplify":    "false",
		"q":           req.Query(),
		"adzone_id":   a.config.AdzoneID,
		"page_no":     "1",
		"page_size":   strconv.Itoa(min(req.Limit(), taobaoMaxPageSize)),
	}
	if a.config.SessionKey != "" {
		params["session"] = a.config.SessionKey
	}
	params["sign"] = a.config.Sign(params)

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return search.RawResponse{}, search.NewAdapterError(search.ProviderTaobao, "search", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	return a.http.do(ctx, httpReq)
}

// Parse decodes the material search response
func (a *TaobaoAdapter) Parse(raw search.RawResponse) ([]search.RawItem, error) {
	var resp TaobaoMaterialSearchResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return nil, search.NewAdapterError(search.ProviderTaobao, "parse",
			fmt.Errorf("%w: %v", search.ErrProviderInvalidResponse, err))
	}
	if e := resp.ErrorResponse; e != nil {
		sentinel := search.ErrProviderBadStatus
		if _, ok := taobaoRateLimitCodes[e.Code.String()]; ok {
			sentinel = search.ErrProviderRateLimited
		}
		return nil, search.NewAdapterError(search.ProviderTaobao, "parse",
			fmt.Errorf("%w: code %s: %s %s", sentinel, e.Code, e.Msg, e.SubMsg))
	}
	if resp.Result == nil {
		return nil, search.NewAdapterError(search.ProviderTaobao, "parse",
			fmt.Errorf("%w: missing result envelope", search.ErrProviderInvalidResponse))
	}
	if resp.Result.ResultList == nil {
		return []search.RawItem{}, nil
	}

	items := make([]search.RawItem, 0, len(resp.Result.ResultList.MapData))
	for _, m := range resp.Result.ResultList.MapData {
		items = append(items, a.convertMaterial(m))
	}
	return items, nil
}

// convertMaterial maps a material onto the intermediate item
func (a *TaobaoAdapter) convertMaterial(m TaobaoMaterial) search.RawItem {
	price := m.ZkFinalPrice
	if price == "" {
		price = m.ReservePrice
	}
	link := m.ItemURL
	if link == "" {
		link = m.URL
	}
	if strings.HasPrefix(link, "//") {
		link = "https:" + link
	}
	category := m.CategoryName
	if category == "" {
		category = m.LevelOneCatName
	}
	marketplace := "taobao"
	if m.UserType == "1" {
		marketplace = "tmall"
	}

	return search.RawItem{
		Title:       m.Title,
		Category:    category,
		Price:       price,
		Currency:    taobaoCurrency,
		ImageURL:    m.PictURL,
		URL:         link,
		Description: m.Description,
		Metadata: map[string]any{
			"item_id":  m.ItemID.String(),
			"shop":     m.ShopTitle,
			"seller":   m.Nick,
			"volume":   m.Volume.String(),
			"location": m.Provcity,
			"platform": marketplace,
		},
	}
}

// shanghai is the timezone the Taobao router expects timestamps in
var shanghai = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}()

package marketplace

import "github.com/shopscout/backend/internal/domain/search"

// DouyinResponse is the base response wrapper for all Douyin API calls
type DouyinResponse struct {
	// ErrNo is the error code (0 for success)
	ErrNo int `json:"err_no"`
	// Code is the newer status code (10000 for success)
	Code int `json:"code"`
	// Message is the error message
	Message string `json:"message"`
	// LogID is the request trace ID for debugging
	LogID string `json:"log_id,omitempty"`
}

// IsSuccess returns true if the response indicates success
func (r *DouyinResponse) IsSuccess() bool {
	return r.ErrNo == 0 && (r.Code == 0 || r.Code == douyinCodeSuccess)
}

// IsRateLimited returns true for throttling errors
func (r *DouyinResponse) IsRateLimited() bool {
	return r.Code == douyinCodeRateLimited || r.ErrNo == douyinCodeRateLimited
}

const (
	douyinCodeSuccess     = 10000
	douyinCodeRateLimited = 50002
)

// DouyinProductSearchResponse is the response for alliance.materialsProductsSearch
type DouyinProductSearchResponse struct {
	DouyinResponse
	Data *DouyinProductSearchData `json:"data,omitempty"`
}

// DouyinProductSearchData contains the product list
type DouyinProductSearchData struct {
	Total    int64           `json:"total"`
	Products []DouyinProduct `json:"products"`
}

// DouyinProduct is one product in a search result.
// Price is in fen (1/100 yuan). Numeric fields arrive as numbers or strings.
type DouyinProduct struct {
	ProductID    search.FlexString `json:"product_id"`
	Title        string            `json:"title"`
	Price        search.FlexString `json:"price"`
	CouponPrice  search.FlexString `json:"coupon_price,omitempty"`
	Cover        string            `json:"cover"`
	DetailURL    string            `json:"detail_url"`
	ShopName     string            `json:"shop_name"`
	ShopID       search.FlexString `json:"shop_id"`
	BrandName    string            `json:"brand_name,omitempty"`
	FirstCname   string            `json:"first_cname"`
	SecondCname  string            `json:"second_cname,omitempty"`
	Sales        search.FlexString `json:"sales"`
	CosRatio     search.FlexString `json:"cos_ratio,omitempty"`
	InStock      bool              `json:"in_stock"`
	SellingPoint string            `json:"selling_point,omitempty"`
}

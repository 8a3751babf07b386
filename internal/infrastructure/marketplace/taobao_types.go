package marketplace

import "github.com/shopscout/backend/internal/domain/search"

// TaobaoErrorResponse represents an error response from the Taobao router
type TaobaoErrorResponse struct {
	Code    search.FlexString `json:"code"`
	Msg     string            `json:"msg"`
	SubCode string            `json:"sub_code,omitempty"`
	SubMsg  string            `json:"sub_msg,omitempty"`
}

// TaobaoMaterialSearchResponse is the response for taobao.tbk.dg.material.optional
type TaobaoMaterialSearchResponse struct {
	ErrorResponse *TaobaoErrorResponse          `json:"error_response,omitempty"`
	Result        *TaobaoMaterialSearchEnvelope `json:"tbk_dg_material_optional_response,omitempty"`
}

// TaobaoMaterialSearchEnvelope wraps the result list
type TaobaoMaterialSearchEnvelope struct {
	TotalResults int64 `json:"total_results"`
	ResultList   *struct {
		MapData []TaobaoMaterial `json:"map_data"`
	} `json:"result_list,omitempty"`
}

// TaobaoMaterial is one item in a material search
type TaobaoMaterial struct {
	ItemID          search.FlexString `json:"item_id"`
	Title           string            `json:"title"`
	ShortTitle      string            `json:"short_title,omitempty"`
	ZkFinalPrice    search.FlexString `json:"zk_final_price"`
	ReservePrice    search.FlexString `json:"reserve_price"`
	PictURL         string            `json:"pict_url"`
	ItemURL         string            `json:"item_url"`
	URL             string            `json:"url"`
	ShopTitle       string            `json:"shop_title"`
	Nick            string            `json:"nick"`
	CategoryName    string            `json:"category_name"`
	LevelOneCatName string            `json:"level_one_category_name"`
	Volume          search.FlexString `json:"volume"`
	UserType        search.FlexString `json:"user_type"`
	Description     string            `json:"item_description"`
	Provcity        string            `json:"provcity"`
}

// taobaoRateLimitCodes are router error codes meaning the app or user is throttled
var taobaoRateLimitCodes = map[string]struct{}{
	"7":  {},
	"29": {},
}

package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDouyinConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  DouyinConfig
		wantErr error
	}{
		{"valid config", DouyinConfig{AppKey: "k", AppSecret: "s", AccessToken: "t"}, nil},
		{"missing app key", DouyinConfig{AppSecret: "s", AccessToken: "t"}, ErrDouyinConfigMissingAppKey},
		{"missing app secret", DouyinConfig{AppKey: "k", AccessToken: "t"}, ErrDouyinConfigMissingAppSecret},
		{"missing token", DouyinConfig{AppKey: "k", AppSecret: "s"}, ErrDouyinConfigMissingAccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DouyinProductionAPIURL, tt.config.APIBaseURL)
		})
	}
}

func TestDouyinConfig_Sign(t *testing.T) {
	config := &DouyinConfig{AppKey: "k", AppSecret: "s"}
	sign := config.Sign(douyinSearchMethod, `{"title":"x"}`, "1700000000", douyinAPIVersion)
	assert.Len(t, sign, 64)
	assert.Equal(t, sign, config.Sign(douyinSearchMethod, `{"title":"x"}`, "1700000000", douyinAPIVersion))
	assert.NotEqual(t, sign, config.Sign(douyinSearchMethod, `{"title":"y"}`, "1700000000", douyinAPIVersion))
}

func TestDouyinAdapter_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, douyinSearchPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "app", body["app_key"])
		assert.Equal(t, "token", body["access_token"])
		assert.Equal(t, "1714564800", body["timestamp"])

		signer := DouyinConfig{AppKey: "app", AppSecret: "secret"}
		assert.Equal(t, signer.Sign(body["method"], body["param_json"], body["timestamp"], body["v"]), body["sign"])

		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(body["param_json"]), &params))
		assert.Equal(t, "蓝牙耳机", params["title"])
		assert.Equal(t, float64(douyinMaxPageSize), params["page_size"])

		_, _ = w.Write([]byte(`{
			"err_no": 0, "code": 10000, "message": "success",
			"data": {"total": 2, "products": [
				{"product_id": 3601, "title": "蓝牙耳机 Pro", "price": 19900, "coupon_price": 15900,
				 "cover": "https://p3.douyinpic.com/a.jpg", "detail_url": "https://haohuo.jinritemai.com/p/3601",
				 "shop_name": "声学小铺", "brand_name": "Sonic", "first_cname": "数码", "second_cname": "耳机", "sales": 42, "in_stock": true},
				{"product_id": "3602", "title": "耳机套", "price": 0}
			]}
		}`))
	}))
	defer server.Close()

	adapter, err := NewDouyinAdapter(DouyinConfig{
		AppKey: "app", AppSecret: "secret", AccessToken: "token", APIBaseURL: server.URL + "/",
	}, ClientOptions{Timeout: time.Second})
	require.NoError(t, err)
	adapter.now = func() time.Time { return time.Unix(1714564800, 0) }

	req, err := search.NewSearchRequest("蓝牙耳机", 50, search.Region{}, "", search.DefaultLimitPolicy())
	require.NoError(t, err)

	raw, err := adapter.Search(context.Background(), req)
	require.NoError(t, err)
	items, err := adapter.Parse(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, search.FlexString("159.00"), items[0].Price)
	assert.Equal(t, "Sonic", items[0].Brand)
	assert.Equal(t, "耳机", items[0].Category)
	assert.Equal(t, "CNY", items[0].Currency)
	assert.Equal(t, "3601", items[0].Metadata["product_id"])

	assert.Empty(t, items[1].Price)
	assert.Equal(t, "https://haohuo.jinritemai.com/views/product/detail?id=3602", items[1].URL)
}

func TestDouyinAdapter_ParseErrors(t *testing.T) {
	adapter, err := NewDouyinAdapter(DouyinConfig{AppKey: "k", AppSecret: "s", AccessToken: "t"}, ClientOptions{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"invalid json", `not json`, search.ErrProviderInvalidResponse},
		{"api error", `{"err_no": 30001, "message": "invalid access token"}`, search.ErrProviderBadStatus},
		{"throttled", `{"code": 50002, "message": "too many requests"}`, search.ErrProviderRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adapter.Parse(search.RawResponse{Body: []byte(tt.body)})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDouyinAdapter_ParseMixedNumericTypes(t *testing.T) {
	adapter, err := NewDouyinAdapter(DouyinConfig{AppKey: "k", AppSecret: "s", AccessToken: "t"}, ClientOptions{})
	require.NoError(t, err)

	body := `{
		"err_no": 0, "code": 10000,
		"data": {"products": [
			{"product_id": 1, "title": "数据线", "price": 1999, "sales": 10, "cos_ratio": 0.2},
			{"product_id": 2, "title": "充电头", "price": "19.90", "coupon_price": "", "sales": "1.2万", "cos_ratio": "20%"},
			{"product_id": 3, "title": "支架", "price": "2590", "coupon_price": 1990.0},
			{"product_id": 4, "title": "贴膜", "price": "面议"}
		]}
	}`
	items, err := adapter.Parse(search.RawResponse{Body: []byte(body)})
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, search.FlexString("19.99"), items[0].Price)
	assert.Equal(t, search.FlexString("0.20"), items[1].Price)
	assert.Equal(t, "1.2万", items[1].Metadata["sales"])
	assert.Equal(t, search.FlexString("19.90"), items[2].Price)
	assert.Empty(t, items[3].Price)
	assert.Equal(t, "贴膜", items[3].Title)
}

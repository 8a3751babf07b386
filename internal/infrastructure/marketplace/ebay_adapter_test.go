package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEbayConfig_Validate(t *testing.T) {
	c := EbayConfig{Token: "t"}
	require.NoError(t, c.Validate())
	assert.Equal(t, EbayProductionAPIURL, c.APIBaseURL)
	assert.Equal(t, "US", c.DefaultCountry)

	assert.ErrorIs(t, (&EbayConfig{}).Validate(), ErrEbayConfigMissingToken)
	assert.ErrorIs(t, (&EbayConfig{Token: "t", DefaultCountry: "XX"}).Validate(), ErrEbayConfigInvalidCountry)
}

func TestEbayConfig_MarketplaceID(t *testing.T) {
	c := EbayConfig{Token: "t", DefaultCountry: "de"}
	require.NoError(t, c.Validate())

	assert.Equal(t, "EBAY_GB", c.MarketplaceID("gb"))
	assert.Equal(t, "EBAY_US", c.MarketplaceID("US"))
	assert.Equal(t, "EBAY_DE", c.MarketplaceID(""))
	assert.Equal(t, "EBAY_DE", c.MarketplaceID("JP"))
}

const ebaySearchBody = `{
  "total": 2,
  "itemSummaries": [
    {
      "itemId": "v1|1234|0",
      "title": "Vintage Camera",
      "price": {"value": "149.99", "currency": "GBP"},
      "condition": "Used",
      "itemWebUrl": "https://www.ebay.co.uk/itm/1234?hash=item1&_trkparms=x",
      "image": {"imageUrl": "https://i.ebayimg.com/1.jpg"},
      "categories": [{"categoryId": "15230", "categoryName": "Film Cameras"}],
      "seller": {"username": "camshop", "feedbackPercentage": "99.8"},
      "itemLocation": {"country": "GB"},
      "buyingOptions": ["FIXED_PRICE"]
    },
    {
      "itemId": "v1|5678|0",
      "title": "Camera Strap",
      "currentBidPrice": {"value": 5, "currency": "GBP"},
      "itemWebUrl": "https://www.ebay.co.uk/itm/5678",
      "thumbnailImages": [{"imageUrl": "https://i.ebayimg.com/t.jpg"}]
    }
  ]
}`

func TestEbayAdapter_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, ebaySearchPath, r.URL.Path)
		assert.Equal(t, "camera", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer oauth-token", r.Header.Get("Authorization"))
		assert.Equal(t, "EBAY_GB", r.Header.Get(ebayMarketplaceHdr))
		assert.Contains(t, r.Header.Get(ebayEndUserCtxHdr), "contextualLocation=")
		assert.Equal(t, "caller-123", r.Header.Get(CallerTokenHeader))
		_, _ = w.Write([]byte(ebaySearchBody))
	}))
	defer server.Close()

	adapter, err := NewEbayAdapter(EbayConfig{Token: "oauth-token", APIBaseURL: server.URL}, ClientOptions{Timeout: time.Second})
	require.NoError(t, err)

	req, err := search.NewSearchRequest("camera", 5, search.Region{Country: "gb"}, "caller-123", search.DefaultLimitPolicy())
	require.NoError(t, err)

	raw, err := adapter.Search(context.Background(), req)
	require.NoError(t, err)
	items, err := adapter.Parse(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Vintage Camera", items[0].Title)
	assert.Equal(t, search.FlexString("149.99"), items[0].Price)
	assert.Equal(t, "GBP", items[0].Currency)
	assert.Equal(t, "Film Cameras", items[0].Category)
	assert.Equal(t, "https://i.ebayimg.com/1.jpg", items[0].ImageURL)
	assert.Equal(t, "camshop", items[0].Metadata["seller"])

	assert.Equal(t, search.FlexString("5"), items[1].Price)
	assert.Equal(t, "https://i.ebayimg.com/t.jpg", items[1].ImageURL)
}

func TestEbayAdapter_DefaultMarketplaceWithoutCallerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EBAY_US", r.Header.Get(ebayMarketplaceHdr))
		assert.Empty(t, r.Header.Get(CallerTokenHeader))
		_, _ = w.Write([]byte(`{"total":0}`))
	}))
	defer server.Close()

	adapter, err := NewEbayAdapter(EbayConfig{Token: "t", APIBaseURL: server.URL}, ClientOptions{})
	require.NoError(t, err)

	req, err := search.NewSearchRequest("camera", 0, search.Region{}, "", search.DefaultLimitPolicy())
	require.NoError(t, err)
	raw, err := adapter.Search(context.Background(), req)
	require.NoError(t, err)

	items, err := adapter.Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEbayAdapter_ParseErrors(t *testing.T) {
	adapter, err := NewEbayAdapter(EbayConfig{Token: "t"}, ClientOptions{})
	require.NoError(t, err)

	_, err = adapter.Parse(search.RawResponse{Body: []byte(`<html>`)})
	assert.ErrorIs(t, err, search.ErrProviderInvalidResponse)

	_, err = adapter.Parse(search.RawResponse{Body: []byte(`{"errors":[{"errorId":12001,"message":"The value of limit is invalid"}]}`)})
	assert.ErrorIs(t, err, search.ErrProviderBadStatus)
}

func TestEbayAdapter_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"errorId":1001,"message":"Invalid access token"}]}`))
	}))
	defer server.Close()

	adapter, err := NewEbayAdapter(EbayConfig{Token: "expired", APIBaseURL: server.URL}, ClientOptions{})
	require.NoError(t, err)

	req, err := search.NewSearchRequest("camera", 5, search.Region{}, "", search.DefaultLimitPolicy())
	require.NoError(t, err)
	_, err = adapter.Search(context.Background(), req)
	assert.ErrorIs(t, err, search.ErrProviderBadStatus)
}

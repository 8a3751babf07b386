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

func TestOLXConfig_Validate(t *testing.T) {
	c := OLXConfig{APIKey: "k"}
	require.NoError(t, c.Validate())
	assert.Equal(t, OLXProductionAPIURL, c.APIBaseURL)
	assert.Equal(t, "warszawa", c.DefaultCity)
	assert.Equal(t, "PLN", c.Currency)

	assert.ErrorIs(t, (&OLXConfig{}).Validate(), ErrOLXConfigMissingAPIKey)
}

func TestCitySlug(t *testing.T) {
	tests := map[string]string{
		"Warszawa":          "warszawa",
		"  Łódź ":           "lodz",
		"Zielona Góra":      "zielona-gora",
		"Bielsko-Biała":     "bielsko-biala",
		"Kędzierzyn--Koźle": "kedzierzyn-kozle",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CitySlug(in), in)
	}
}

const olxSearchBody = `{
  "data": [
    {
      "id": 880011,
      "url": "https://www.olx.pl/d/oferta/rower-gorski-CID767-ID1.html",
      "title": "Rower górski",
      "description": "<p>Stan bardzo dobry.<br/>Odbiór osobisty.</p>",
      "params": [
        {"key": "price", "name": "Cena", "type": "price",
         "value": {"value": 1299, "type": "price", "currency": "PLN", "label": "1 299 zł", "key": "arranged"}},
        {"key": "state", "name": "Stan", "type": "select", "value": {"key": "used", "label": "Używane"}},
        {"key": "marka", "name": "Marka", "type": "select", "value": {"key": "kross", "label": "Kross"}}
      ],
      "photos": [{"link": "https://ireland.apollo.olxcdn.com/v1/files/abc/image;s={width}x{height}"}],
      "location": {"city": {"name": "Kraków"}},
      "category": {"id": 767, "type": "goods"},
      "promotion": {"highlighted": false, "top_ad": true}
    },
    {
      "id": "880012",
      "url": "https://www.olx.pl/d/oferta/kask-CID767-ID2.html",
      "title": "Kask",
      "params": []
    }
  ],
  "metadata": {"total_elements": 2}
}`

func TestOLXAdapter_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, olxSearchPath, r.URL.Path)
		assert.Equal(t, "rower", r.URL.Query().Get("query"))
		assert.Equal(t, "krakow", r.URL.Query().Get("city"))
		assert.Equal(t, "api-key", r.Header.Get(olxAPIKeyHeader))
		_, _ = w.Write([]byte(olxSearchBody))
	}))
	defer server.Close()

	adapter, err := NewOLXAdapter(OLXConfig{APIKey: "api-key", APIBaseURL: server.URL}, ClientOptions{Timeout: time.Second})
	require.NoError(t, err)

	req, err := search.NewSearchRequest("rower", 10, search.Region{City: "Kraków"}, "", search.DefaultLimitPolicy())
	require.NoError(t, err)

	raw, err := adapter.Search(context.Background(), req)
	require.NoError(t, err)
	items, err := adapter.Parse(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Rower górski", first.Title)
	assert.Equal(t, search.FlexString("1 299 zł"), first.Price)
	assert.Equal(t, "PLN", first.Currency)
	assert.Equal(t, "Kross", first.Brand)
	assert.Equal(t, "goods", first.Category)
	assert.Equal(t, "https://ireland.apollo.olxcdn.com/v1/files/abc/image;s=1000x1000", first.ImageURL)
	assert.Equal(t, "Używane", first.Metadata["condition"])
	assert.Equal(t, "Kraków", first.Metadata["city"])
	assert.Equal(t, true, first.Metadata["promoted"])

	assert.Empty(t, items[1].Price)
	assert.Equal(t, "PLN", items[1].Currency)
}

func TestOLXAdapter_DefaultCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "warszawa", r.URL.Query().Get("city"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	adapter, err := NewOLXAdapter(OLXConfig{APIKey: "k", APIBaseURL: server.URL}, ClientOptions{})
	require.NoError(t, err)

	req, err := search.NewSearchRequest("rower", 10, search.Region{}, "", search.DefaultLimitPolicy())
	require.NoError(t, err)
	_, err = adapter.Search(context.Background(), req)
	require.NoError(t, err)
}

func TestOLXAdapter_ParseErrors(t *testing.T) {
	adapter, err := NewOLXAdapter(OLXConfig{APIKey: "k"}, ClientOptions{})
	require.NoError(t, err)

	_, err = adapter.Parse(search.RawResponse{Body: []byte(`[`)})
	assert.ErrorIs(t, err, search.ErrProviderInvalidResponse)

	_, err = adapter.Parse(search.RawResponse{Body: []byte(`{"error":{"status":400,"title":"Bad Request","detail":"invalid city"}}`)})
	assert.ErrorIs(t, err, search.ErrProviderBadStatus)
}

package marketplace

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, c *httpClient, url string) (search.RawResponse, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return c.do(context.Background(), req)
}

func TestHTTPClient_DecodesBodies(t *testing.T) {
	payload := `{"ok":true}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br, gzip", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")

		var buf bytes.Buffer
		switch r.URL.Path {
		case "/br":
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write([]byte(payload))
			_ = bw.Close()
			w.Header().Set("Content-Encoding", "br")
		case "/gzip":
			gw := gzip.NewWriter(&buf)
			_, _ = gw.Write([]byte(payload))
			_ = gw.Close()
			w.Header().Set("Content-Encoding", "gzip")
		default:
			buf.WriteString(payload)
		}
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	c := newHTTPClient(search.ProviderEbay, ClientOptions{Timeout: time.Second})
	for _, path := range []string{"/br", "/gzip", "/plain"} {
		t.Run(path, func(t *testing.T) {
			raw, err := get(t, c, server.URL+path)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, raw.StatusCode)
			assert.Equal(t, "application/json", raw.ContentType)
			assert.JSONEq(t, payload, string(raw.Body))
		})
	}
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusTooManyRequests, search.ErrProviderRateLimited},
		{http.StatusUnauthorized, search.ErrProviderBadStatus},
		{http.StatusNotFound, search.ErrProviderBadStatus},
		{http.StatusBadGateway, search.ErrProviderBadStatus},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := newHTTPClient(search.ProviderOLX, ClientOptions{})
			raw, err := get(t, c, server.URL)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, raw.StatusCode)

			var adapterErr *search.AdapterError
			require.ErrorAs(t, err, &adapterErr)
			assert.Equal(t, search.ProviderOLX, adapterErr.Provider)
		})
	}
}

func TestHTTPClient_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := newHTTPClient(search.ProviderEbay, ClientOptions{Timeout: time.Second})
	_, err := get(t, c, url)
	assert.ErrorIs(t, err, search.ErrProviderUnavailable)
}

func TestHTTPClient_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseSize+10)))
	}))
	defer server.Close()

	c := newHTTPClient(search.ProviderEbay, ClientOptions{})
	_, err := get(t, c, server.URL)
	assert.ErrorIs(t, err, search.ErrProviderInvalidResponse)
}

func TestHTTPClient_RateLimiterHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newHTTPClient(search.ProviderEbay, ClientOptions{RateLimit: 0.1, RateBurst: 1})
	_, err := get(t, c, server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	_, err = c.do(ctx, req)
	assert.ErrorIs(t, err, search.ErrProviderRateLimited)
}

func TestOverlay(t *testing.T) {
	assert.Equal(t, "base", overlay("base", ""))
	assert.Equal(t, "base", overlay("base", "   "))
	assert.Equal(t, "db", overlay("base", " db "))
}

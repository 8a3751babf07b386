package marketplace

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/shopscout/backend/internal/domain/search"
	"golang.org/x/time/rate"
)

const (
	// maxResponseSize is the maximum accepted response body from a marketplace (10MB)
	maxResponseSize = 10 * 1024 * 1024

	// defaultRequestTimeout applies when a provider has no timeout configured.
	// The dispatcher deadline is normally shorter.
	defaultRequestTimeout = 30 * time.Second

	userAgent = "shopscout/1.0 (+https://shopscout.dev)"

	// CallerTokenHeader forwards the opaque caller token to providers that personalize results
	CallerTokenHeader = "X-Caller-Token"
)

// ClientOptions configures the shared HTTP plumbing of an adapter
type ClientOptions struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	RateBurst int
	// Transport overrides the HTTP transport, mostly for tests
	Transport http.RoundTripper
}

// httpClient performs rate-limited requests and maps transport failures onto
// the provider error taxonomy.
type httpClient struct {
	provider search.ProviderID
	client   *http.Client
	limiter  *rate.Limiter
}

func newHTTPClient(provider search.ProviderID, opts ClientOptions) *httpClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}
	c := &httpClient{
		provider: provider,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// do sends the request and reads the (possibly compressed) body.
// Any status >= 400 is an error; 429 is reported as rate limited.
func (c *httpClient) do(ctx context.Context, req *http.Request) (search.RawResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return search.RawResponse{}, c.fail("rate_limit", fmt.Errorf("%w: %w", search.ErrProviderRateLimited, err))
		}
	}

	req = req.WithContext(ctx)
	req.Header.Set("Accept-Encoding", "br, gzip")
	req.Header.Set("User-Agent", userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return search.RawResponse{}, c.fail("request", fmt.Errorf("%w: %w", search.ErrProviderTimeout, ctxErr))
		}
		return search.RawResponse{}, c.fail("request", fmt.Errorf("%w: %v", search.ErrProviderUnavailable, err))
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return search.RawResponse{}, c.fail("read", fmt.Errorf("%w: %v", search.ErrProviderInvalidResponse, err))
	}

	raw := search.RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Latency:     time.Since(start),
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return raw, c.fail("request", fmt.Errorf("%w: HTTP %d", search.ErrProviderRateLimited, resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return raw, c.fail("request", fmt.Errorf("%w: HTTP %d", search.ErrProviderBadStatus, resp.StatusCode))
	}
	return raw, nil
}

func (c *httpClient) fail(op string, err error) error {
	return search.NewAdapterError(c.provider, op, err)
}

// readBody decodes br and gzip bodies and enforces maxResponseSize
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case "", "identity":
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}

	body, err := io.ReadAll(io.LimitReader(r, maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxResponseSize)
	}
	return body, nil
}

// overlay returns override when it is not blank
func overlay(base, override string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	return base
}

package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/mock"
)

// fakeAdapter returns canned items after an optional delay
type fakeAdapter struct {
	id        search.ProviderID
	items     []search.RawItem
	err       error
	parseErr  error
	delay     time.Duration
	ignoreCtx bool
	panics    bool
	calls     atomic.Int32
}

func (f *fakeAdapter) Name() search.ProviderID { return f.id }

func (f *fakeAdapter) Search(ctx context.Context, _ search.SearchRequest) (search.RawResponse, error) {
	f.calls.Add(1)
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		if f.ignoreCtx {
			time.Sleep(f.delay)
		} else {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return search.RawResponse{}, ctx.Err()
			}
		}
	}
	if f.err != nil {
		return search.RawResponse{}, f.err
	}
	return search.RawResponse{StatusCode: 200}, nil
}

func (f *fakeAdapter) Parse(search.RawResponse) ([]search.RawItem, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.items, nil
}

func rawItems(host string, n int) []search.RawItem {
	items := make([]search.RawItem, n)
	for i := range items {
		items[i] = search.RawItem{
			Title:    fmt.Sprintf("%s item %d", host, i),
			Price:    search.FlexString(fmt.Sprintf("%d.99", 10+i)),
			Currency: "usd",
			URL:      fmt.Sprintf("https://%s/item/%d", host, i),
		}
	}
	return items
}

func specFor(a search.Adapter) ProviderSpec {
	return ProviderSpec{
		ID:      a.Name(),
		Enabled: true,
		Build:   func(*search.MarketplaceCredential) (search.Adapter, error) { return a, nil },
	}
}

func mustRegistry(specs ...ProviderSpec) *Registry {
	r, err := NewRegistry(specs)
	if err != nil {
		panic(err)
	}
	return r
}

func mustRequest(query string, limit int) search.SearchRequest {
	req, err := search.NewSearchRequest(query, limit, search.Region{}, "", search.DefaultLimitPolicy())
	if err != nil {
		panic(err)
	}
	return req
}

// MockResultCache is a mock implementation of search.ResultCache
type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Get(ctx context.Context, fingerprint string) (*search.CompositeResult, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.CompositeResult), args.Error(1)
}

func (m *MockResultCache) Set(ctx context.Context, fingerprint string, result *search.CompositeResult, ttl time.Duration) error {
	args := m.Called(ctx, fingerprint, result, ttl)
	return args.Error(0)
}

func (m *MockResultCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockResultCache) Stats() search.CacheStats {
	args := m.Called()
	return args.Get(0).(search.CacheStats)
}

// MockCredentialRepository is a mock implementation of search.CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) ListCredentials(ctx context.Context) ([]search.MarketplaceCredential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.MarketplaceCredential), args.Error(1)
}

// MockSearchHistoryRepository is a mock implementation of search.SearchHistoryRepository
type MockSearchHistoryRepository struct {
	mock.Mock
}

func (m *MockSearchHistoryRepository) Save(ctx context.Context, record search.SearchRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSearchHistoryRepository) Recent(ctx context.Context, limit int) ([]search.SearchRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.SearchRecord), args.Error(1)
}

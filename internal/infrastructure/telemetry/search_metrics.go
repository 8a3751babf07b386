package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Provider outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// SearchMetrics holds the instruments recorded by the search pipeline.
// A nil *SearchMetrics is valid and records nothing.
type SearchMetrics struct {
	searches         *Counter
	searchDuration   *Histogram
	providerCalls    *Counter
	providerDuration *Histogram
	rejectedItems    *Counter
	cacheLookups     *Counter
	resultSize       *Histogram
	enabledProviders *Gauge
}

// NewSearchMetrics creates the search instruments on the given meter.
func NewSearchMetrics(meter metric.Meter) (*SearchMetrics, error) {
	m := &SearchMetrics{}
	var err error

	if m.searches, err = NewCounter(meter, "search.requests", "Number of aggregated searches", "{request}"); err != nil {
		return nil, err
	}
	if m.searchDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "search.duration",
		Description: "Wall-clock duration of aggregated searches",
		Unit:        "s",
		Boundaries:  ProviderDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.providerCalls, err = NewCounter(meter, "search.provider.calls", "Provider calls by outcome", "{call}"); err != nil {
		return nil, err
	}
	if m.providerDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "search.provider.duration",
		Description: "Duration of provider calls",
		Unit:        "s",
		Boundaries:  ProviderDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.rejectedItems, err = NewCounter(meter, "search.normalizer.rejected", "Items dropped during normalization", "{item}"); err != nil {
		return nil, err
	}
	if m.cacheLookups, err = NewCounter(meter, "search.cache.lookups", "Result cache lookups by result", "{lookup}"); err != nil {
		return nil, err
	}
	if m.resultSize, err = NewHistogram(meter, HistogramOpts{
		Name:        "search.result.size",
		Description: "Items returned per search",
		Unit:        "{item}",
		Boundaries:  ResultSizeBuckets,
	}); err != nil {
		return nil, err
	}
	if m.enabledProviders, err = NewGauge(meter, "search.providers.enabled", "Currently enabled providers", "{provider}"); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSearch records one completed search.
func (m *SearchMetrics) RecordSearch(ctx context.Context, d time.Duration, items int, cached bool) {
	if m == nil {
		return
	}
	result := "miss"
	if cached {
		result = "hit"
	}
	m.searches.Inc(ctx, AttrCacheResult.String(result))
	m.searchDuration.RecordDuration(ctx, d, AttrCacheResult.String(result))
	m.resultSize.Record(ctx, float64(items))
}

// RecordProviderCall records one provider unit of work.
func (m *SearchMetrics) RecordProviderCall(ctx context.Context, provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrProvider.String(provider), AttrOutcome.String(outcome)}
	m.providerCalls.Inc(ctx, attrs...)
	m.providerDuration.RecordDuration(ctx, d, attrs...)
}

// RecordRejected records items dropped by the normalizer.
func (m *SearchMetrics) RecordRejected(ctx context.Context, provider string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rejectedItems.Add(ctx, int64(n), AttrProvider.String(provider))
}

// RecordCacheLookup records a cache hit, miss or error.
func (m *SearchMetrics) RecordCacheLookup(ctx context.Context, backend, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.Inc(ctx, AttrCacheBackend.String(backend), AttrCacheResult.String(result))
}

// RecordEnabledProviders records the size of the enabled provider set.
func (m *SearchMetrics) RecordEnabledProviders(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.enabledProviders.Record(ctx, int64(n))
}

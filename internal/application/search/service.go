package search

import (
	"context"
	"errors"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/infrastructure/logger"
	"github.com/shopscout/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultCacheTTL is used when the configured TTL is not positive
const DefaultCacheTTL = 10 * time.Minute

// Cache lookup results reported to metrics
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// DefaultRecentSearches bounds the history listing
const DefaultRecentSearches = 50

// ErrHistoryDisabled is returned when search history is not configured
var ErrHistoryDisabled = errors.New("search: history is not enabled")

// ServiceConfig configures the aggregation pipeline
type ServiceConfig struct {
	Limits    search.LimitPolicy
	RankDecay float64
	CacheTTL  time.Duration
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithResultCache sets the result cache. Without one every search dispatches.
func WithResultCache(cache search.ResultCache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithHistoryRecorder enables the search history audit trail
func WithHistoryRecorder(h *HistoryRecorder) ServiceOption {
	return func(s *Service) {
		s.history = h
	}
}

// WithSearchMetrics sets the metrics sink
func WithSearchMetrics(m *telemetry.SearchMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithServiceLogger sets the fallback logger used when the context carries none
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service aggregates product searches across every enabled provider
type Service struct {
	registry   *Registry
	dispatcher *Dispatcher
	normalizer *Normalizer
	cache      search.ResultCache
	history    *HistoryRecorder
	metrics    *telemetry.SearchMetrics
	logger     *zap.Logger
	config     ServiceConfig
}

// NewService creates a new search Service
func NewService(registry *Registry, dispatcher *Dispatcher, normalizer *Normalizer, config ServiceConfig, opts ...ServiceOption) *Service {
	if config.RankDecay <= 0 {
		config.RankDecay = DefaultRankDecay
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	s := &Service{
		registry:   registry,
		dispatcher: dispatcher,
		normalizer: normalizer,
		logger:     zap.NewNop(),
		config:     config,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

// Search runs an aggregated search. The only request error is ErrEmptyQuery;
// provider and cache failures are reported inside the result. ErrSearchCanceled
// is returned when ctx ends before the providers finish.
func (s *Service) Search(ctx context.Context, q SearchQuery) (*search.CompositeResult, error) {
	start := time.Now()
	req, err := search.NewSearchRequest(q.Query, q.Limit, q.Region, q.CallerToken, s.config.Limits)
	if err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(req)
	ctx, span := telemetry.StartServiceSpan(ctx, "search", "search",
		telemetry.WithAttribute(telemetry.SpanAttrQuery, req.Query()),
		telemetry.WithAttribute(telemetry.SpanAttrLimit, req.Limit()),
		telemetry.WithAttribute(telemetry.SpanAttrFingerprint, fingerprint),
	)
	defer span.End()
	log := s.log(ctx).With(zap.String("fingerprint", fingerprint))

	if cached := s.lookup(ctx, fingerprint); cached != nil {
		cached.Cached = true
		telemetry.SetAttributes(span,
			telemetry.SpanAttrCacheHit, true,
			telemetry.SpanAttrItemCount, len(cached.Items),
		)
		telemetry.SetOK(span)
		s.metrics.RecordSearch(ctx, time.Since(start), len(cached.Items), true)
		s.recordHistory(req, cached)
		log.Debug("Search served from cache", zap.Int("items", len(cached.Items)))
		return cached, nil
	}

	result, err := s.aggregate(ctx, req, fingerprint, start)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Info("Search aborted", zap.Error(err))
		return nil, err
	}

	s.store(ctx, fingerprint, result)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCacheHit, false,
		telemetry.SpanAttrItemCount, len(result.Items),
	)
	telemetry.SetOK(span)
	s.metrics.RecordSearch(ctx, result.Elapsed, len(result.Items), false)
	s.recordHistory(req, result)

	log.Info("Search completed",
		zap.Int("items", len(result.Items)),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// aggregate dispatches to the current registry snapshot and builds the result
func (s *Service) aggregate(ctx context.Context, req search.SearchRequest, fingerprint string, start time.Time) (*search.CompositeResult, error) {
	snap := s.registry.Snapshot()
	runs, err := s.dispatcher.Dispatch(ctx, snap, req)
	if err != nil {
		return nil, err
	}

	outcomes := make([]search.ProviderOutcome, len(runs))
	lists := make([][]search.CanonicalProduct, len(runs))
	for i, run := range runs {
		if run.Err != nil {
			outcomes[i] = search.NewFailureOutcome(run.Provider, run.Err, run.TimedOut, run.Elapsed)
			continue
		}
		items, rejected := s.normalizer.Normalize(run.Provider, run.Items)
		if rejected > 0 {
			s.metrics.RecordRejected(ctx, run.Provider.String(), rejected)
			s.log(ctx).Debug("Dropped malformed provider items",
				zap.String("provider", run.Provider.String()),
				zap.Int("rejected", rejected),
			)
		}
		lists[i] = items
		outcomes[i] = search.NewSuccessOutcome(run.Provider, len(run.Items), len(items), run.Elapsed)
	}

	items := Rank(Dedup(lists), req.Limit(), s.config.RankDecay)
	return search.NewCompositeResult(fingerprint, items, outcomes, time.Since(start)), nil
}

// lookup treats every cache error as a miss
func (s *Service) lookup(ctx context.Context, fingerprint string) *search.CompositeResult {
	if s.cache == nil {
		return nil
	}
	backend := s.cache.Stats().Backend
	cached, err := s.cache.Get(ctx, fingerprint)
	switch {
	case err != nil:
		s.metrics.RecordCacheLookup(ctx, backend, cacheError)
		s.log(ctx).Warn("Result cache lookup failed, treating as miss",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)
		return nil
	case cached == nil:
		s.metrics.RecordCacheLookup(ctx, backend, cacheMiss)
		return nil
	default:
		s.metrics.RecordCacheLookup(ctx, backend, cacheHit)
		return cached
	}
}

// store caches results that at least one provider contributed to
func (s *Service) store(ctx context.Context, fingerprint string, result *search.CompositeResult) {
	if s.cache == nil || result.Succeeded == 0 || ctx.Err() != nil {
		return
	}
	if err := s.cache.Set(ctx, fingerprint, result, s.config.CacheTTL); err != nil {
		s.log(ctx).Warn("Failed to cache search result",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)
	}
}

func (s *Service) recordHistory(req search.SearchRequest, result *search.CompositeResult) {
	if s.history == nil {
		return
	}
	s.history.Record(search.NewSearchRecord(req, result))
}

// ---------------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------------

// Debug reports the registry state and, when query is not blank, runs a trial
// search that bypasses the cache.
func (s *Service) Debug(ctx context.Context, query string) (*DebugReport, error) {
	snap := s.registry.Snapshot()
	report := &DebugReport{
		Enabled:         snap.Enabled(),
		Providers:       snap.Statuses(),
		RegistryVersion: snap.Version(),
		RegistryBuiltAt: snap.BuiltAt(),
	}
	if s.cache != nil {
		report.Cache = s.cache.Stats()
	}

	req, err := search.NewSearchRequest(query, 0, search.Region{}, "", s.config.Limits)
	if errors.Is(err, search.ErrEmptyQuery) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	report.Query = req.Query()
	report.Fingerprint = Fingerprint(req)
	trial, err := s.aggregate(ctx, req, report.Fingerprint, time.Now())
	if err != nil {
		return nil, err
	}
	report.Trial = trial
	return report, nil
}

// Health pings the cache and summarizes provider availability
func (s *Service) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:           HealthOK,
		EnabledProviders: s.registry.Snapshot().Len(),
		CheckedAt:        time.Now().UTC(),
	}
	if s.cache == nil {
		report.Cache = CacheHealth{Backend: "none", Reachable: true}
		return report
	}

	stats := s.cache.Stats()
	report.Cache = CacheHealth{
		Backend:   stats.Backend,
		Reachable: true,
		Stats:     stats,
		HitRate:   stats.HitRate(),
	}
	if err := s.cache.Ping(ctx); err != nil {
		report.Status = HealthDegraded
		report.Cache.Reachable = false
		report.Cache.Error = err.Error()
	}
	if report.EnabledProviders == 0 {
		report.Status = HealthDegraded
	}
	return report
}

// CacheStats returns the result cache counters
func (s *Service) CacheStats() search.CacheStats {
	if s.cache == nil {
		return search.CacheStats{Backend: "none"}
	}
	return s.cache.Stats()
}

// RecentSearches lists the latest searches from the history store
func (s *Service) RecentSearches(ctx context.Context, limit int) ([]SearchHistoryEntry, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 || limit > DefaultRecentSearches {
		limit = DefaultRecentSearches
	}
	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]SearchHistoryEntry, len(records))
	for i, rec := range records {
		out[i] = ToSearchHistoryEntry(rec)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Provider management
// ---------------------------------------------------------------------------

// Providers returns the status of every registered provider
func (s *Service) Providers() []ProviderStatus {
	return s.registry.Providers()
}

// RefreshProviders re-evaluates the registry from configuration and stored credentials
func (s *Service) RefreshProviders(ctx context.Context) ([]ProviderStatus, error) {
	if err := s.registry.Refresh(ctx); err != nil {
		return nil, err
	}
	snap := s.registry.Snapshot()
	s.metrics.RecordEnabledProviders(ctx, snap.Len())
	return snap.Statuses(), nil
}

// EnableProvider turns a provider on until it is disabled again
func (s *Service) EnableProvider(ctx context.Context, id search.ProviderID) (ProviderStatus, error) {
	status, err := s.registry.Enable(id)
	s.metrics.RecordEnabledProviders(ctx, s.registry.Snapshot().Len())
	return status, err
}

// DisableProvider turns a provider off until it is enabled again
func (s *Service) DisableProvider(ctx context.Context, id search.ProviderID) (ProviderStatus, error) {
	status, err := s.registry.Disable(id)
	s.metrics.RecordEnabledProviders(ctx, s.registry.Snapshot().Len())
	return status, err
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

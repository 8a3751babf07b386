package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/infrastructure/logger"
	"github.com/shopscout/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultAdapterTimeout bounds a single provider call when no timeout is configured
const DefaultAdapterTimeout = 5 * time.Second

// DispatcherConfig configures fan-out
type DispatcherConfig struct {
	// AdapterTimeout bounds Search plus Parse for each provider
	AdapterTimeout time.Duration
	// MaxConcurrency caps in-flight provider calls; 0 means unlimited
	MaxConcurrency int
}

// ProviderRun is the result of one provider unit
type ProviderRun struct {
	Provider search.ProviderID
	Items    []search.RawItem
	Err      error
	TimedOut bool
	Elapsed  time.Duration
}

// Succeeded reports whether the unit produced items without error
func (r ProviderRun) Succeeded() bool {
	return r.Err == nil
}

// Dispatcher fans a request out to every enabled adapter concurrently
type Dispatcher struct {
	config  DispatcherConfig
	metrics *telemetry.SearchMetrics
	sem     chan struct{}
}

// NewDispatcher creates a Dispatcher. metrics may be nil.
func NewDispatcher(cfg DispatcherConfig, metrics *telemetry.SearchMetrics) *Dispatcher {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = DefaultAdapterTimeout
	}
	d := &Dispatcher{config: cfg, metrics: metrics}
	if cfg.MaxConcurrency > 0 {
		d.sem = make(chan struct{}, cfg.MaxConcurrency)
	}
	return d
}

type unitResult struct {
	items []search.RawItem
	err   error
}

// Dispatch runs every adapter of the snapshot and returns one run per enabled
// provider, in registry order. When ctx is canceled Dispatch stops waiting and
// returns ErrSearchCanceled; units still running finish on their own timeouts.
func (d *Dispatcher) Dispatch(ctx context.Context, snap *RegistrySnapshot, req search.SearchRequest) ([]ProviderRun, error) {
	providers := snap.Enabled()
	runs := make([]ProviderRun, len(providers))
	if len(providers) == 0 {
		return runs, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "search", "dispatch",
		telemetry.WithAttribute(telemetry.SpanAttrProviders, len(providers)),
	)
	defer span.End()

	var wg sync.WaitGroup
	for i, id := range providers {
		adapter, _ := snap.AdapterFor(id)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runs[i] = d.runUnit(ctx, id, adapter, req)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		telemetry.SetOK(span)
		return runs, nil
	case <-ctx.Done():
		err := fmt.Errorf("%w: %w", search.ErrSearchCanceled, ctx.Err())
		telemetry.RecordError(span, err)
		return nil, err
	}
}

func (d *Dispatcher) runUnit(ctx context.Context, id search.ProviderID, adapter search.Adapter, req search.SearchRequest) ProviderRun {
	start := time.Now()
	unitCtx, cancel := context.WithTimeout(ctx, d.config.AdapterTimeout)
	defer cancel()

	unitCtx, span := telemetry.StartSpan(unitCtx, "search.provider",
		telemetry.WithAttribute(telemetry.SpanAttrProvider, id.String()),
	)
	defer span.End()

	run := d.call(ctx, unitCtx, id, adapter, req)
	run.Elapsed = time.Since(start)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrRawCount, len(run.Items),
		telemetry.SpanAttrTimedOut, run.TimedOut,
	)
	if run.Err != nil {
		telemetry.RecordError(span, run.Err)
	} else {
		telemetry.SetOK(span)
	}
	d.record(ctx, run)
	return run
}

// call acquires a concurrency slot and runs Search then Parse, giving up when
// the unit context ends even if the adapter ignores it.
func (d *Dispatcher) call(ctx, unitCtx context.Context, id search.ProviderID, adapter search.Adapter, req search.SearchRequest) ProviderRun {
	run := ProviderRun{Provider: id}

	if d.sem != nil {
		select {
		case d.sem <- struct{}{}:
			defer func() { <-d.sem }()
		case <-unitCtx.Done():
			return d.expired(ctx, run)
		}
	}

	results := make(chan unitResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				err := fmt.Errorf("%w: panic: %v", search.ErrProviderInvalidResponse, p)
				results <- unitResult{err: search.NewAdapterError(id, "search", err)}
			}
		}()
		raw, err := adapter.Search(unitCtx, req)
		if err != nil {
			results <- unitResult{err: search.AsAdapterError(id, "search", err)}
			return
		}
		items, err := adapter.Parse(raw)
		if err != nil {
			results <- unitResult{err: search.AsAdapterError(id, "parse", err)}
			return
		}
		results <- unitResult{items: items}
	}()

	select {
	case res := <-results:
		run.Items, run.Err = res.items, res.err
		if run.Err != nil && ctx.Err() == nil && errors.Is(unitCtx.Err(), context.DeadlineExceeded) {
			// the adapter honored the deadline and returned before we observed it
			return d.expired(ctx, run)
		}
		return run
	case <-unitCtx.Done():
		return d.expired(ctx, run)
	}
}

// expired reports a unit whose context ended before it produced a result
func (d *Dispatcher) expired(parent context.Context, run ProviderRun) ProviderRun {
	run.Items = nil
	if err := parent.Err(); err != nil {
		run.Err = search.NewAdapterError(run.Provider, "search", err)
		return run
	}
	run.Err = search.NewAdapterError(run.Provider, "search",
		fmt.Errorf("%w after %s", search.ErrProviderTimeout, d.config.AdapterTimeout))
	run.TimedOut = true
	return run
}

// record meters and logs a finished unit
func (d *Dispatcher) record(ctx context.Context, run ProviderRun) {
	outcome := telemetry.OutcomeSuccess
	switch {
	case run.TimedOut:
		outcome = telemetry.OutcomeTimeout
	case run.Err != nil:
		outcome = telemetry.OutcomeFailure
	}
	d.metrics.RecordProviderCall(ctx, run.Provider.String(), outcome, run.Elapsed)

	log := logger.L(ctx).With(
		zap.String("provider", run.Provider.String()),
		zap.Duration("elapsed", run.Elapsed),
	)
	if run.Err != nil {
		log.Warn("Provider call failed", zap.Bool("timed_out", run.TimedOut), zap.Error(run.Err))
		return
	}
	log.Debug("Provider call completed", zap.Int("raw_items", len(run.Items)))
}

package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"go.uber.org/zap"
)

// HistoryRecorderConfig holds configuration for the history recorder
type HistoryRecorderConfig struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

// DefaultHistoryRecorderConfig returns default configuration
func DefaultHistoryRecorderConfig() HistoryRecorderConfig {
	return HistoryRecorderConfig{
		QueueSize:    256,
		Workers:      2,
		WriteTimeout: 2 * time.Second,
	}
}

// HistoryRecorder writes search records in the background.
// Records are dropped when the queue is full; failures are only logged.
type HistoryRecorder struct {
	repo   search.SearchHistoryRepository
	config HistoryRecorderConfig
	logger *zap.Logger

	queue   chan search.SearchRecord
	dropped atomic.Int64

	mu      sync.RWMutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewHistoryRecorder creates a new history recorder
func NewHistoryRecorder(repo search.SearchHistoryRepository, config HistoryRecorderConfig, logger *zap.Logger) *HistoryRecorder {
	defaults := DefaultHistoryRecorderConfig()
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryRecorder{
		repo:   repo,
		config: config,
		logger: logger,
		queue:  make(chan search.SearchRecord, config.QueueSize),
	}
}

// Start starts the background writers
func (h *HistoryRecorder) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return nil
	}
	h.started = true

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	for range h.config.Workers {
		h.wg.Add(1)
		go h.writeLoop(ctx)
	}

	h.logger.Info("search history recorder started",
		zap.Int("workers", h.config.Workers),
		zap.Int("queue_size", h.config.QueueSize),
	)
	return nil
}

// Stop drains pending records and stops the writers.
// Records arriving after Stop are counted as dropped.
func (h *HistoryRecorder) Stop(ctx context.Context) error {
	h.mu.Lock()
	h.stopped = true
	cancel := h.cancel
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info("search history recorder stopped", zap.Int64("dropped", h.dropped.Load()))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Record enqueues a record without blocking
func (h *HistoryRecorder) Record(rec search.SearchRecord) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.stopped {
		h.dropped.Add(1)
		h.logger.Debug("search history recorder stopped, dropping record", zap.String("fingerprint", rec.Fingerprint))
		return
	}
	select {
	case h.queue <- rec:
	default:
		h.dropped.Add(1)
		h.logger.Warn("search history queue full, dropping record", zap.String("fingerprint", rec.Fingerprint))
	}
}

// Dropped returns the number of records dropped because the queue was full
// or the recorder was stopped
func (h *HistoryRecorder) Dropped() int64 {
	return h.dropped.Load()
}

func (h *HistoryRecorder) writeLoop(ctx context.Context) {
	defer h.wg.Done()
	for {
		select {
		case rec := <-h.queue:
			h.write(rec)
		case <-ctx.Done():
			h.drain()
			return
		}
	}
}

// drain flushes whatever is queued at shutdown
func (h *HistoryRecorder) drain() {
	for {
		select {
		case rec := <-h.queue:
			h.write(rec)
		default:
			return
		}
	}
}

func (h *HistoryRecorder) write(rec search.SearchRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.WriteTimeout)
	defer cancel()
	if err := h.repo.Save(ctx, rec); err != nil {
		h.logger.Warn("failed to save search history",
			zap.String("fingerprint", rec.Fingerprint),
			zap.Error(err),
		)
	}
}

// Recent returns the most recent search records, newest first
func (h *HistoryRecorder) Recent(ctx context.Context, limit int) ([]search.SearchRecord, error) {
	return h.repo.Recent(ctx, limit)
}

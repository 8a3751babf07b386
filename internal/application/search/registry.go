package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"go.uber.org/zap"
)

// Reasons reported for disabled providers
const (
	ReasonConfigDisabled     = "disabled in configuration"
	ReasonCredentialDisabled = "disabled in credential store"
	ReasonOperatorDisabled   = "disabled by operator"
	ReasonInvalidConfig      = "invalid configuration"
)

// Configuration sources for a provider
const (
	SourceConfig   = "config"
	SourceDatabase = "database"
)

// AdapterBuilder constructs an adapter from static configuration, optionally
// overlaid with a stored credential. It returns an error when the resulting
// configuration does not validate.
type AdapterBuilder func(cred *search.MarketplaceCredential) (search.Adapter, error)

// ProviderSpec registers one provider with the registry
type ProviderSpec struct {
	ID      search.ProviderID
	Enabled bool
	Build   AdapterBuilder
}

// ProviderStatus describes one known provider
type ProviderStatus struct {
	Provider    search.ProviderID `json:"provider"`
	DisplayName string            `json:"display_name"`
	Enabled     bool              `json:"enabled"`
	Reason      string            `json:"reason,omitempty"`
	Source      string            `json:"source"`
	Override    *bool             `json:"override,omitempty"`
}

// RegistrySnapshot is an immutable view of the registry used for one dispatch
type RegistrySnapshot struct {
	version  uint64
	builtAt  time.Time
	order    []search.ProviderID
	adapters map[search.ProviderID]search.Adapter
	statuses []ProviderStatus
}

// Enabled returns the enabled provider ids in registry order
func (s *RegistrySnapshot) Enabled() []search.ProviderID {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// AdapterFor returns the adapter of an enabled provider
func (s *RegistrySnapshot) AdapterFor(id search.ProviderID) (search.Adapter, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.adapters[id]
	return a, ok
}

// Len returns the number of enabled providers
func (s *RegistrySnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Statuses returns the status of every registered provider
func (s *RegistrySnapshot) Statuses() []ProviderStatus {
	if s == nil {
		return nil
	}
	return slices.Clone(s.statuses)
}

// Version increases every time a new snapshot is published
func (s *RegistrySnapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// BuiltAt returns when the snapshot was published
func (s *RegistrySnapshot) BuiltAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.builtAt
}

type buildResult struct {
	adapter search.Adapter
	err     error
	enabled bool
	reason  string
	source  string
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithCredentialRepository enables database credential overrides on Refresh
func WithCredentialRepository(repo search.CredentialRepository) RegistryOption {
	return func(r *Registry) {
		r.credentials = repo
	}
}

// WithRegistryLogger sets the logger
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry tracks which providers are enabled. Readers load an immutable
// snapshot; writers rebuild it under a mutex and swap it atomically, so
// Refresh is safe while dispatches are in flight.
type Registry struct {
	specs       []ProviderSpec
	credentials search.CredentialRepository
	logger      *zap.Logger

	mu        sync.Mutex
	built     map[search.ProviderID]buildResult
	overrides map[search.ProviderID]bool
	version   uint64

	current atomic.Pointer[RegistrySnapshot]
}

// NewRegistry creates a registry from the given specs, in order, and publishes
// an initial snapshot from static configuration.
func NewRegistry(specs []ProviderSpec, opts ...RegistryOption) (*Registry, error) {
	seen := make(map[search.ProviderID]struct{}, len(specs))
	for _, spec := range specs {
		if spec.ID == "" || spec.Build == nil {
			return nil, fmt.Errorf("register provider %q: id and builder are required", spec.ID)
		}
		if _, dup := seen[spec.ID]; dup {
			return nil, fmt.Errorf("register provider %q: duplicate id", spec.ID)
		}
		seen[spec.ID] = struct{}{}
	}

	r := &Registry{
		specs:     slices.Clone(specs),
		logger:    zap.NewNop(),
		built:     make(map[search.ProviderID]buildResult, len(specs)),
		overrides: make(map[search.ProviderID]bool),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range r.specs {
		r.built[spec.ID] = r.build(spec, nil)
	}
	r.publishLocked()
	return r, nil
}

// Refresh re-evaluates every provider from static configuration plus stored
// credentials. When the credential store fails, the current snapshot is kept.
func (r *Registry) Refresh(ctx context.Context) error {
	creds := map[search.ProviderID]*search.MarketplaceCredential{}
	if r.credentials != nil {
		list, err := r.credentials.ListCredentials(ctx)
		if err != nil {
			r.logger.Warn("Failed to load marketplace credentials, keeping current providers", zap.Error(err))
			return fmt.Errorf("refresh providers: %w", err)
		}
		for i := range list {
			creds[list[i].Provider] = &list[i]
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range r.specs {
		r.built[spec.ID] = r.build(spec, creds[spec.ID])
	}
	snap := r.publishLocked()
	r.logger.Info("Provider registry refreshed",
		zap.Int("enabled", snap.Len()),
		zap.Uint64("version", snap.Version()),
	)
	return nil
}

// Snapshot returns the current snapshot
func (r *Registry) Snapshot() *RegistrySnapshot {
	return r.current.Load()
}

// Enabled returns the enabled provider ids in registry order
func (r *Registry) Enabled() []search.ProviderID {
	return r.Snapshot().Enabled()
}

// AdapterFor returns the adapter of an enabled provider
func (r *Registry) AdapterFor(id search.ProviderID) (search.Adapter, bool) {
	return r.Snapshot().AdapterFor(id)
}

// Providers returns the status of every registered provider
func (r *Registry) Providers() []ProviderStatus {
	return r.Snapshot().Statuses()
}

// Enable marks a provider as enabled by the operator. The override survives
// Refresh. Providers whose configuration does not validate stay disabled and
// ErrProviderNotConfigured is returned along with the status.
func (r *Registry) Enable(id search.ProviderID) (ProviderStatus, error) {
	status, err := r.setOverride(id, true)
	if err != nil {
		return status, err
	}
	if !status.Enabled {
		return status, fmt.Errorf("%w: %s", search.ErrProviderNotConfigured, id)
	}
	return status, nil
}

// Disable marks a provider as disabled by the operator. The override survives Refresh.
func (r *Registry) Disable(id search.ProviderID) (ProviderStatus, error) {
	return r.setOverride(id, false)
}

func (r *Registry) setOverride(id search.ProviderID, enabled bool) (ProviderStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.built[id]; !ok {
		return ProviderStatus{}, fmt.Errorf("%w: %s", search.ErrUnknownProvider, id)
	}
	r.overrides[id] = enabled
	snap := r.publishLocked()

	r.logger.Info("Provider override set",
		zap.String("provider", id.String()),
		zap.Bool("enabled", enabled),
	)
	for _, st := range snap.statuses {
		if st.Provider == id {
			return st, nil
		}
	}
	return ProviderStatus{}, fmt.Errorf("%w: %s", search.ErrUnknownProvider, id)
}

func (r *Registry) build(spec ProviderSpec, cred *search.MarketplaceCredential) buildResult {
	res := buildResult{enabled: spec.Enabled, source: SourceConfig}
	if !spec.Enabled {
		res.reason = ReasonConfigDisabled
	}
	if cred != nil {
		res.source = SourceDatabase
		res.enabled = cred.Enabled
		res.reason = ""
		if !cred.Enabled {
			res.reason = ReasonCredentialDisabled
		}
	}

	adapter, err := spec.Build(cred)
	if err != nil {
		res.err = err
		if !errors.Is(err, search.ErrProviderNotConfigured) {
			res.err = fmt.Errorf("%w: %w", search.ErrProviderNotConfigured, err)
		}
		r.logger.Debug("Provider configuration invalid",
			zap.String("provider", spec.ID.String()),
			zap.Error(err),
		)
		return res
	}
	res.adapter = adapter
	return res
}

func (r *Registry) publishLocked() *RegistrySnapshot {
	r.version++
	snap := &RegistrySnapshot{
		version:  r.version,
		builtAt:  time.Now(),
		adapters: make(map[search.ProviderID]search.Adapter, len(r.specs)),
		statuses: make([]ProviderStatus, 0, len(r.specs)),
	}

	for _, spec := range r.specs {
		res := r.built[spec.ID]
		status := ProviderStatus{
			Provider:    spec.ID,
			DisplayName: spec.ID.DisplayName(),
			Source:      res.source,
		}

		enabled, reason := res.enabled, res.reason
		if override, ok := r.overrides[spec.ID]; ok {
			status.Override = &override
			enabled = override
			reason = ""
			if !override {
				reason = ReasonOperatorDisabled
			}
		}
		if res.adapter == nil {
			enabled = false
			reason = ReasonInvalidConfig
			if res.err != nil {
				reason = fmt.Sprintf("%s: %v", ReasonInvalidConfig, res.err)
			}
		}

		status.Enabled = enabled
		status.Reason = reason
		snap.statuses = append(snap.statuses, status)
		if enabled {
			snap.order = append(snap.order, spec.ID)
			snap.adapters[spec.ID] = res.adapter
		}
	}

	r.current.Store(snap)
	return snap
}

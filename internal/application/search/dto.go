package search

import (
	"time"

	"github.com/shopscout/backend/internal/domain/search"
)

// ---------------------------------------------------------------------------
// Search DTOs
// ---------------------------------------------------------------------------

// SearchQuery is the caller-facing search input before validation
type SearchQuery struct {
	Query       string
	Limit       int
	Region      search.Region
	CallerToken string
}

// ---------------------------------------------------------------------------
// Diagnostics DTOs
// ---------------------------------------------------------------------------

// DebugReport describes the registry state and a one-shot trial search
type DebugReport struct {
	Query           string                  `json:"query,omitempty"`
	Fingerprint     string                  `json:"fingerprint,omitempty"`
	Enabled         []search.ProviderID     `json:"enabled"`
	Providers       []ProviderStatus        `json:"providers"`
	RegistryVersion uint64                  `json:"registry_version"`
	RegistryBuiltAt time.Time               `json:"registry_built_at"`
	Trial           *search.CompositeResult `json:"trial,omitempty"`
	Cache           search.CacheStats       `json:"cache"`
}

// Health status values
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// CacheHealth reports cache reachability
type CacheHealth struct {
	Backend   string            `json:"backend"`
	Reachable bool              `json:"reachable"`
	Error     string            `json:"error,omitempty"`
	Stats     search.CacheStats `json:"stats"`
	HitRate   float64           `json:"hit_rate"`
}

// HealthReport is the aggregated service health
type HealthReport struct {
	Status           string      `json:"status"`
	EnabledProviders int         `json:"enabled_providers"`
	Cache            CacheHealth `json:"cache"`
	CheckedAt        time.Time   `json:"checked_at"`
}

// SearchHistoryEntry is one recent search
type SearchHistoryEntry struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	Cached      bool      `json:"cached"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToSearchHistoryEntry converts a domain record to a response DTO
func ToSearchHistoryEntry(rec search.SearchRecord) SearchHistoryEntry {
	return SearchHistoryEntry{
		ID:          rec.ID.String(),
		Fingerprint: rec.Fingerprint,
		Query:       rec.Query,
		ResultCount: rec.ResultCount,
		Succeeded:   rec.Succeeded,
		Failed:      rec.Failed,
		Cached:      rec.Cached,
		ElapsedMs:   rec.ElapsedMs,
		CreatedAt:   rec.CreatedAt,
	}
}

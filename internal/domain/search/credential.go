package search

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MarketplaceCredential holds operator-managed overrides for one provider.
// Non-empty fields replace the static configuration on registry refresh.
type MarketplaceCredential struct {
	Provider  ProviderID
	Enabled   bool
	APIKey    string
	APISecret string
	Token     string
	Endpoint  string
	UpdatedAt time.Time
}

// CredentialRepository loads marketplace credential overrides
type CredentialRepository interface {
	ListCredentials(ctx context.Context) ([]MarketplaceCredential, error)
}

// SearchRecord is one row of the search history audit trail
type SearchRecord struct {
	ID          uuid.UUID
	Fingerprint string
	Query       string
	ResultCount int
	Succeeded   int
	Failed      int
	Cached      bool
	ElapsedMs   int64
	CreatedAt   time.Time
}

// NewSearchRecord builds a history record from a completed search
func NewSearchRecord(req SearchRequest, result *CompositeResult) SearchRecord {
	return SearchRecord{
		ID:          uuid.New(),
		Fingerprint: result.Fingerprint,
		Query:       req.Query(),
		ResultCount: len(result.Items),
		Succeeded:   result.Succeeded,
		Failed:      result.Failed,
		Cached:      result.Cached,
		ElapsedMs:   result.Elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
}

// SearchHistoryRepository persists search history records
type SearchHistoryRepository interface {
	Save(ctx context.Context, record SearchRecord) error
	Recent(ctx context.Context, limit int) ([]SearchRecord, error)
}

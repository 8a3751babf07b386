package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopscout/backend/internal/domain/search"
	"gorm.io/gorm"
)

// SearchQueryModel is the GORM model for the search history audit trail
type SearchQueryModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Fingerprint string    `gorm:"column:fingerprint;size:64;not null;index"`
	Query       string    `gorm:"column:query;type:text;not null"`
	ResultCount int       `gorm:"column:result_count;not null;default:0"`
	Succeeded   int       `gorm:"column:succeeded;not null;default:0"`
	Failed      int       `gorm:"column:failed;not null;default:0"`
	Cached      bool      `gorm:"column:cached;not null;default:false"`
	ElapsedMs   int64     `gorm:"column:elapsed_ms;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index"`
}

// TableName returns the table name for the model
func (SearchQueryModel) TableName() string {
	return "search_queries"
}

// ToEntity converts the model to a domain record
func (m *SearchQueryModel) ToEntity() search.SearchRecord {
	return search.SearchRecord{
		ID:          m.ID,
		Fingerprint: m.Fingerprint,
		Query:       m.Query,
		ResultCount: m.ResultCount,
		Succeeded:   m.Succeeded,
		Failed:      m.Failed,
		Cached:      m.Cached,
		ElapsedMs:   m.ElapsedMs,
		CreatedAt:   m.CreatedAt,
	}
}

// SearchQueryModelFromEntity creates a model from a domain record
func SearchQueryModelFromEntity(rec search.SearchRecord) *SearchQueryModel {
	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &SearchQueryModel{
		ID:          id,
		Fingerprint: rec.Fingerprint,
		Query:       rec.Query,
		ResultCount: rec.ResultCount,
		Succeeded:   rec.Succeeded,
		Failed:      rec.Failed,
		Cached:      rec.Cached,
		ElapsedMs:   rec.ElapsedMs,
		CreatedAt:   createdAt,
	}
}

// SearchHistoryRepository implements search.SearchHistoryRepository
type SearchHistoryRepository struct {
	db *gorm.DB
}

// NewSearchHistoryRepository creates a new search history repository
func NewSearchHistoryRepository(db *gorm.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Save persists one search record
func (r *SearchHistoryRepository) Save(ctx context.Context, rec search.SearchRecord) error {
	if err := r.db.WithContext(ctx).Create(SearchQueryModelFromEntity(rec)).Error; err != nil {
		return fmt.Errorf("save search record: %w", err)
	}
	return nil
}

// Recent returns the latest records, newest first
func (r *SearchHistoryRepository) Recent(ctx context.Context, limit int) ([]search.SearchRecord, error) {
	var models []SearchQueryModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}

	records := make([]search.SearchRecord, len(models))
	for i := range models {
		records[i] = models[i].ToEntity()
	}
	return records, nil
}

var _ search.SearchHistoryRepository = (*SearchHistoryRepository)(nil)

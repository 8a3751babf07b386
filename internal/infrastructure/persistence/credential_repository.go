package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopscout/backend/internal/domain/search"
	"gorm.io/gorm"
)

// MarketplaceCredentialModel is the GORM model for operator-managed provider credentials
type MarketplaceCredentialModel struct {
	Provider  string    `gorm:"column:provider;primaryKey;size:32"`
	Enabled   bool      `gorm:"column:enabled;not null;default:true"`
	APIKey    string    `gorm:"column:api_key;size:255"`
	APISecret string    `gorm:"column:api_secret;size:255"`
	Token     string    `gorm:"column:token;type:text"`
	Endpoint  string    `gorm:"column:endpoint;size:512"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the model
func (MarketplaceCredentialModel) TableName() string {
	return "marketplace_credentials"
}

// ToEntity converts the model to a domain credential
func (m *MarketplaceCredentialModel) ToEntity() search.MarketplaceCredential {
	return search.MarketplaceCredential{
		Provider:  search.ProviderID(strings.ToLower(strings.TrimSpace(m.Provider))),
		Enabled:   m.Enabled,
		APIKey:    strings.TrimSpace(m.APIKey),
		APISecret: strings.TrimSpace(m.APISecret),
		Token:     strings.TrimSpace(m.Token),
		Endpoint:  strings.TrimSpace(m.Endpoint),
		UpdatedAt: m.UpdatedAt,
	}
}

// CredentialRepository implements search.CredentialRepository
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// ListCredentials returns every stored credential ordered by provider
func (r *CredentialRepository) ListCredentials(ctx context.Context) ([]search.MarketplaceCredential, error) {
	var models []MarketplaceCredentialModel
	if err := r.db.WithContext(ctx).Order("provider ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list marketplace credentials: %w", err)
	}

	creds := make([]search.MarketplaceCredential, len(models))
	for i := range models {
		creds[i] = models[i].ToEntity()
	}
	return creds, nil
}

var _ search.CredentialRepository = (*CredentialRepository)(nil)

package persistence

import (
	"context"
	"testing"

	"github.com/shopscout/backend/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRepository_ListCredentials(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		creds, err := repo.ListCredentials(ctx)
		require.NoError(t, err)
		assert.Empty(t, creds)
	})

	t.Run("returns rows ordered by provider", func(t *testing.T) {
		rows := []MarketplaceCredentialModel{
			{Provider: "taobao", Enabled: true, APIKey: " key ", APISecret: "secret"},
			{Provider: "douyin", Enabled: false},
			{Provider: "OLX", Enabled: true, APIKey: "olx-key", Endpoint: "https://www.olx.ua"},
		}
		require.NoError(t, db.Create(&rows).Error)

		creds, err := repo.ListCredentials(ctx)
		require.NoError(t, err)
		require.Len(t, creds, 3)

		byProvider := map[search.ProviderID]search.MarketplaceCredential{}
		for _, c := range creds {
			byProvider[c.Provider] = c
		}

		assert.Equal(t, "key", byProvider[search.ProviderTaobao].APIKey)
		assert.True(t, byProvider[search.ProviderTaobao].Enabled)
		assert.False(t, byProvider[search.ProviderDouyin].Enabled)
		assert.Equal(t, "https://www.olx.ua", byProvider[search.ProviderOLX].Endpoint)
		assert.False(t, byProvider[search.ProviderOLX].UpdatedAt.IsZero())
	})
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

func TestAppStateRepositoryGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppStateRepository(db)
	ctx := context.Background()

	t.Run("first get creates the singleton row", func(t *testing.T) {
		state, err := repo.Get(ctx)
		require.NoError(t, err)

		assert.Empty(t, state.TenantDomain)
		assert.Equal(t, "[]", state.OrderModeIDs)
		assert.False(t, state.SetupComplete())

		var count int64
		require.NoError(t, db.Model(&models.AppStateModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("repeated gets do not create more rows", func(t *testing.T) {
		_, err := repo.Get(ctx)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.AppStateModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestAppStateRepositorySetters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppStateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SetTenant(ctx, "demo.example.com", "tok-1"))
	require.NoError(t, repo.SetLocation(ctx, "loc-1", "brand-1"))
	require.NoError(t, repo.SetOrderModes(ctx, `["om-1","om-2"]`, "om-1"))
	require.NoError(t, repo.SetDeviceRole(ctx, "POS"))
	require.NoError(t, repo.SetAppearance(ctx, "dark", "en"))

	state, err := repo.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, "demo.example.com", state.TenantDomain)
	assert.Equal(t, "tok-1", state.AccessToken)
	assert.Equal(t, "loc-1", state.LocationID)
	assert.Equal(t, "brand-1", state.BrandID)
	assert.Equal(t, `["om-1","om-2"]`, state.OrderModeIDs)
	assert.Equal(t, "om-1", state.DefaultOrderMode)
	assert.Equal(t, "POS", state.DeviceRole)
	assert.Equal(t, "dark", state.Theme)
	assert.True(t, state.SetupComplete())

	t.Run("empty order modes normalize to empty array", func(t *testing.T) {
		require.NoError(t, repo.SetOrderModes(ctx, "", ""))

		state, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "[]", state.OrderModeIDs)
	})
}

func TestAppStateRepositoryReset(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppStateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SetTenant(ctx, "demo.example.com", "tok-1"))
	require.NoError(t, repo.SetLocation(ctx, "loc-1", "brand-1"))
	require.NoError(t, repo.Reset(ctx))

	state, err := repo.Get(ctx)
	require.NoError(t, err)

	assert.Empty(t, state.TenantDomain)
	assert.Empty(t, state.AccessToken)
	assert.Empty(t, state.LocationID)
	assert.Equal(t, "[]", state.OrderModeIDs)
	assert.False(t, state.SetupComplete())
}

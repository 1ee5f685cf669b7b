package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/domain/workday"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
)

func createTestWorkday(t *testing.T, locationID string) *workday.Workday {
	t.Helper()
	w, err := workday.NewWorkday(locationID, "user-1", time.Now())
	require.NoError(t, err)
	return w
}

func TestWorkdayRepositorySave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkdayRepository(db)
	ctx := context.Background()

	t.Run("save and load round trip", func(t *testing.T) {
		w := createTestWorkday(t, "loc-1")
		require.NoError(t, repo.Save(ctx, w))

		found, err := repo.FindByLocalID(ctx, w.LocalID())
		require.NoError(t, err)
		assert.True(t, found.IsActive())
		assert.Equal(t, shared.SyncPending, found.SyncStatus())
	})

	t.Run("second active shift for same location is rejected", func(t *testing.T) {
		w := createTestWorkday(t, "loc-1")
		err := repo.Save(ctx, w)
		assert.Error(t, err)
	})

	t.Run("other locations can open their own shift", func(t *testing.T) {
		w := createTestWorkday(t, "loc-2")
		assert.NoError(t, repo.Save(ctx, w))
	})

	t.Run("closed shift can be saved alongside an active one", func(t *testing.T) {
		w := createTestWorkday(t, "loc-1")
		require.NoError(t, w.Close("user-1", time.Now(), 0, 0, true))
		assert.NoError(t, repo.Save(ctx, w))
	})
}

func TestWorkdayRepositoryFindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkdayRepository(db)
	ctx := context.Background()

	t.Run("no active shift is not found", func(t *testing.T) {
		_, err := repo.FindActive(ctx, "loc-1")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("returns the open shift", func(t *testing.T) {
		w := createTestWorkday(t, "loc-1")
		require.NoError(t, repo.Save(ctx, w))

		found, err := repo.FindActive(ctx, "loc-1")
		require.NoError(t, err)
		assert.Equal(t, w.LocalID(), found.LocalID())
	})

	t.Run("closed shift no longer surfaces as active", func(t *testing.T) {
		found, err := repo.FindActive(ctx, "loc-1")
		require.NoError(t, err)

		require.NoError(t, found.Close("user-2", time.Now(), 120, 6, false))
		require.NoError(t, repo.Update(ctx, found))

		_, err = repo.FindActive(ctx, "loc-1")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestWorkdayRepositoryUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkdayRepository(db)
	ctx := context.Background()

	t.Run("persists close and server id", func(t *testing.T) {
		w := createTestWorkday(t, "loc-1")
		require.NoError(t, repo.Save(ctx, w))

		require.NoError(t, w.BeginSync())
		require.NoError(t, w.CompleteSync())
		require.NoError(t, w.AssignWorkdayID("wd-srv-1"))
		require.NoError(t, w.Close("user-2", time.Now(), 250.5, 9, false))
		require.NoError(t, repo.Update(ctx, w))

		found, err := repo.FindByLocalID(ctx, w.LocalID())
		require.NoError(t, err)
		assert.False(t, found.IsActive())
		assert.Equal(t, "wd-srv-1", found.WorkdayID())
		assert.Equal(t, 250.5, found.TotalSales())
		// The close re-queued the row for sync.
		assert.Equal(t, shared.SyncPending, found.SyncStatus())
		assert.Nil(t, found.SyncedAt())
	})

	t.Run("unknown workday is not found", func(t *testing.T) {
		w := createTestWorkday(t, "loc-9")
		err := repo.Update(ctx, w)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestWorkdayRepositoryListPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkdayRepository(db)
	ctx := context.Background()

	pending := createTestWorkday(t, "loc-1")
	require.NoError(t, repo.Save(ctx, pending))

	synced := createTestWorkday(t, "loc-2")
	require.NoError(t, synced.BeginSync())
	require.NoError(t, synced.CompleteSync())
	require.NoError(t, repo.Save(ctx, synced))

	rows, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pending.LocalID(), rows[0].LocalID())
}

func TestWorkdayRepositoryStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkdayRepository(db)
	ctx := context.Background()

	pending := createTestWorkday(t, "loc-1")
	require.NoError(t, repo.Save(ctx, pending))

	syncing := createTestWorkday(t, "loc-2")
	require.NoError(t, syncing.BeginSync())
	require.NoError(t, repo.Save(ctx, syncing))

	failed := createTestWorkday(t, "loc-3")
	require.NoError(t, failed.BeginSync())
	require.NoError(t, failed.FailSync("backend returned 500"))
	require.NoError(t, repo.Save(ctx, failed))

	synced := createTestWorkday(t, "loc-4")
	require.NoError(t, synced.BeginSync())
	require.NoError(t, synced.CompleteSync())
	require.NoError(t, repo.Save(ctx, synced))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)

	// A row caught mid-push still counts as pending.
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Synced)
	assert.Equal(t, int64(3), stats.Unsynced())
}

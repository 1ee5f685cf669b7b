package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/domain/kitchen"
)

func createTestKDSTicket(t *testing.T, id string, tokenNumber int) *kitchen.KDSTicket {
	t.Helper()
	k, err := kitchen.NewKDSTicket(id, "T001-0001", id, "loc-1", "Dine In",
		[]byte(`[{"name":"Latte","qty":1}]`), 4.5, tokenNumber)
	require.NoError(t, err)
	return k
}

func TestKDSTicketRepositorySave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKDSTicketRepository(db)
	ctx := context.Background()

	t.Run("save and load round trip", func(t *testing.T) {
		k := createTestKDSTicket(t, "tk-1", 1)
		require.NoError(t, repo.Save(ctx, k))

		found, err := repo.FindByID(ctx, "tk-1")
		require.NoError(t, err)
		assert.Equal(t, kitchen.StatusPending, found.Status())
		assert.Equal(t, 1, found.TokenNumber())
	})

	t.Run("replayed message does not duplicate the work item", func(t *testing.T) {
		k := createTestKDSTicket(t, "tk-1", 1)
		require.NoError(t, repo.Save(ctx, k))

		rows, err := repo.ListActive(ctx, "loc-1")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestKDSTicketRepositoryUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKDSTicketRepository(db)
	ctx := context.Background()

	k := createTestKDSTicket(t, "tk-1", 1)
	require.NoError(t, repo.Save(ctx, k))

	require.NoError(t, k.Start())
	require.NoError(t, repo.Update(ctx, k))

	found, err := repo.FindByID(ctx, "tk-1")
	require.NoError(t, err)
	assert.Equal(t, kitchen.StatusInProgress, found.Status())

	require.NoError(t, found.MarkReady())
	require.NoError(t, repo.Update(ctx, found))

	found, err = repo.FindByID(ctx, "tk-1")
	require.NoError(t, err)
	assert.Equal(t, kitchen.StatusReady, found.Status())
}

func TestKDSTicketRepositoryListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKDSTicketRepository(db)
	ctx := context.Background()

	first := createTestKDSTicket(t, "tk-1", 1)
	require.NoError(t, repo.Save(ctx, first))

	second := createTestKDSTicket(t, "tk-2", 2)
	require.NoError(t, repo.Save(ctx, second))

	rows, err := repo.ListActive(ctx, "loc-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Oldest first so the kitchen works the queue in order.
	assert.Equal(t, "tk-1", rows[0].ID())
	assert.Equal(t, "tk-2", rows[1].ID())
}

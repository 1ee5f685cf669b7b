package kitchen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	domainkitchen "github.com/slatepos/slate/internal/domain/kitchen"
	"github.com/slatepos/slate/internal/infrastructure/migration"
	"github.com/slatepos/slate/internal/infrastructure/repository"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

type fakeSender struct {
	sent []*hubprotocol.Message
}

func (f *fakeSender) Send(msg *hubprotocol.Message) {
	f.sent = append(f.sent, msg)
}

type kitchenFixture struct {
	svc    *Service
	sender *fakeSender
	repo   *repository.KDSTicketRepository
}

func setupKitchenService(t *testing.T) *kitchenFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))

	f := &kitchenFixture{
		sender: &fakeSender{},
		repo:   repository.NewKDSTicketRepository(db),
	}
	f.svc = NewService(f.repo, f.sender, "dev-kds", logger.NewLogger())
	return f
}

func newOrderMessage(t *testing.T, ticketID string, tokenNumber int) *hubprotocol.Message {
	t.Helper()
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeNewOrder, "dev-pos", hubprotocol.DeviceTypePOS,
		hubprotocol.NewOrderPayload{
			TicketID:      ticketID,
			TicketNumber:  "T001-0001",
			TokenNumber:   tokenNumber,
			LocationID:    "loc-1",
			OrderModeName: "Dine In",
			Items:         []byte(`[{"name":"Latte","qty":1}]`),
			TotalAmount:   4.5,
		})
	require.NoError(t, err)
	return msg
}

func TestHandleHubMessage(t *testing.T) {
	t.Run("new_order creates a pending work item", func(t *testing.T) {
		f := setupKitchenService(t)

		f.svc.HandleHubMessage(newOrderMessage(t, "tk-1", 1))

		item, err := f.repo.FindByID(context.Background(), "tk-1")
		require.NoError(t, err)
		assert.Equal(t, domainkitchen.StatusPending, item.Status())
		assert.Equal(t, "T001-0001", item.TicketNumber())
	})

	t.Run("replayed message does not duplicate", func(t *testing.T) {
		f := setupKitchenService(t)

		f.svc.HandleHubMessage(newOrderMessage(t, "tk-1", 1))
		f.svc.HandleHubMessage(newOrderMessage(t, "tk-1", 1))

		rows, err := f.svc.ListActive(context.Background(), "loc-1")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("unrelated message types are ignored", func(t *testing.T) {
		f := setupKitchenService(t)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeTokenServed, "dev-queue", hubprotocol.DeviceTypeQueue,
			hubprotocol.TokenServedPayload{TicketID: "tk-1", TokenNumber: 1})
		require.NoError(t, err)

		f.svc.HandleHubMessage(msg)

		rows, err := f.svc.ListActive(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestStartTicket(t *testing.T) {
	f := setupKitchenService(t)
	ctx := context.Background()

	f.svc.HandleHubMessage(newOrderMessage(t, "tk-1", 1))

	view, err := f.svc.StartTicket(ctx, "tk-1")
	require.NoError(t, err)
	assert.Equal(t, domainkitchen.StatusInProgress.String(), view.Status)

	_, err = f.svc.StartTicket(ctx, "tk-1")
	assert.Error(t, err)

	_, err = f.svc.StartTicket(ctx, "missing")
	assert.Error(t, err)
}

func TestMarkReady(t *testing.T) {
	t.Run("completes the item and notifies the hub", func(t *testing.T) {
		f := setupKitchenService(t)
		ctx := context.Background()

		f.svc.HandleHubMessage(newOrderMessage(t, "tk-1", 7))

		view, err := f.svc.MarkReady(ctx, "tk-1")
		require.NoError(t, err)
		assert.Equal(t, domainkitchen.StatusReady.String(), view.Status)

		require.Len(t, f.sender.sent, 1)
		msg := f.sender.sent[0]
		assert.Equal(t, hubprotocol.MsgTypeOrderReady, msg.MessageType)
		assert.Equal(t, "dev-kds", msg.DeviceID)

		payload, err := hubprotocol.DecodePayload(msg)
		require.NoError(t, err)
		ready, ok := payload.(*hubprotocol.OrderReadyPayload)
		require.True(t, ok)
		assert.Equal(t, "tk-1", ready.TicketID)
		assert.Equal(t, 7, ready.TokenNumber)
	})

	t.Run("marking ready twice fails", func(t *testing.T) {
		f := setupKitchenService(t)
		ctx := context.Background()

		f.svc.HandleHubMessage(newOrderMessage(t, "tk-1", 1))

		_, err := f.svc.MarkReady(ctx, "tk-1")
		require.NoError(t, err)

		_, err = f.svc.MarkReady(ctx, "tk-1")
		assert.Error(t, err)
	})
}

func TestRemove(t *testing.T) {
	f := setupKitchenService(t)
	ctx := context.Background()

	f.svc.HandleHubMessage(newOrderMessage(t, "tk-1", 1))
	require.NoError(t, f.svc.Remove(ctx, "tk-1"))

	rows, err := f.svc.ListActive(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

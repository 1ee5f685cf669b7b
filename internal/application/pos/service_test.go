package pos

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slatepos/slate/internal/application/pos/dto"
	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/domain/ticket"
	"github.com/slatepos/slate/internal/infrastructure/migration"
	"github.com/slatepos/slate/internal/infrastructure/repository"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

type fakeSyncer struct {
	online  bool
	syncErr error
	calls   int
}

func (f *fakeSyncer) IsOnline(ctx context.Context) bool { return f.online }

func (f *fakeSyncer) SyncTicketNow(ctx context.Context, t *ticket.Ticket) error {
	f.calls++
	if f.syncErr != nil {
		return f.syncErr
	}
	return t.MarkSyncedOnCreate()
}

type fakeHub struct {
	kds   []*hubprotocol.Message
	queue []*hubprotocol.Message
}

func (f *fakeHub) BroadcastToKDS(msg *hubprotocol.Message) int {
	f.kds = append(f.kds, msg)
	return 1
}

func (f *fakeHub) BroadcastToQueue(msg *hubprotocol.Message) int {
	f.queue = append(f.queue, msg)
	return 1
}

type posFixture struct {
	svc     *Service
	syncer  *fakeSyncer
	hub     *fakeHub
	tickets *repository.TicketRepository
}

func setupPOSService(t *testing.T, online bool) *posFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))

	f := &posFixture{
		syncer:  &fakeSyncer{online: online},
		hub:     &fakeHub{},
		tickets: repository.NewTicketRepository(db),
	}
	f.svc = NewService(f.tickets, f.syncer, f.hub, "dev-pos", logger.NewLogger())
	return f
}

func validOrder() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		TicketData:    []byte(`{"items":[{"name":"Latte","qty":1}]}`),
		Items:         []byte(`[{"name":"Latte","qty":1}]`),
		LocationID:    "loc-1",
		OrderModeName: "Dine In",
		TotalAmount:   4.5,
		BusinessDate:  "2026-08-31",
		Source:        "POS",
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("offline order lands pending", func(t *testing.T) {
		f := setupPOSService(t, false)

		resp, err := f.svc.CreateOrder(context.Background(), validOrder())
		require.NoError(t, err)

		assert.Equal(t, 1, resp.QueueNumber)
		assert.Equal(t, "T20260831-0001", resp.TicketNumber)
		assert.Equal(t, shared.SyncPending.String(), resp.SyncStatus)
		assert.Zero(t, f.syncer.calls)

		stored, err := f.tickets.FindByID(context.Background(), resp.TicketID)
		require.NoError(t, err)
		assert.Equal(t, shared.SyncPending, stored.SyncStatus())
	})

	t.Run("online order syncs immediately", func(t *testing.T) {
		f := setupPOSService(t, true)

		resp, err := f.svc.CreateOrder(context.Background(), validOrder())
		require.NoError(t, err)

		assert.Equal(t, shared.SyncSynced.String(), resp.SyncStatus)
		assert.Equal(t, 1, f.syncer.calls)

		stored, err := f.tickets.FindByID(context.Background(), resp.TicketID)
		require.NoError(t, err)
		assert.Equal(t, shared.SyncSynced, stored.SyncStatus())
		assert.NotNil(t, stored.SyncedAt())
	})

	t.Run("immediate sync failure still persists the order", func(t *testing.T) {
		f := setupPOSService(t, true)
		f.syncer.syncErr = fmt.Errorf("backend returned 500")

		resp, err := f.svc.CreateOrder(context.Background(), validOrder())
		require.NoError(t, err)

		assert.Equal(t, shared.SyncPending.String(), resp.SyncStatus)

		stored, err := f.tickets.FindByID(context.Background(), resp.TicketID)
		require.NoError(t, err)
		assert.Equal(t, shared.SyncPending, stored.SyncStatus())
	})

	t.Run("queue numbers increment per business date", func(t *testing.T) {
		f := setupPOSService(t, false)
		ctx := context.Background()

		first, err := f.svc.CreateOrder(ctx, validOrder())
		require.NoError(t, err)
		second, err := f.svc.CreateOrder(ctx, validOrder())
		require.NoError(t, err)

		assert.Equal(t, 1, first.QueueNumber)
		assert.Equal(t, 2, second.QueueNumber)

		nextDay := validOrder()
		nextDay.BusinessDate = "2026-09-01"
		third, err := f.svc.CreateOrder(ctx, nextDay)
		require.NoError(t, err)
		assert.Equal(t, 1, third.QueueNumber)
		assert.Equal(t, "T20260901-0001", third.TicketNumber)
	})

	t.Run("broadcasts to kitchen and queue displays", func(t *testing.T) {
		f := setupPOSService(t, false)

		resp, err := f.svc.CreateOrder(context.Background(), validOrder())
		require.NoError(t, err)

		require.Len(t, f.hub.kds, 1)
		require.Len(t, f.hub.queue, 1)

		msg := f.hub.kds[0]
		assert.Equal(t, hubprotocol.MsgTypeNewOrder, msg.MessageType)
		assert.Equal(t, "dev-pos", msg.DeviceID)

		payload, err := hubprotocol.DecodePayload(msg)
		require.NoError(t, err)
		order, ok := payload.(*hubprotocol.NewOrderPayload)
		require.True(t, ok)
		assert.Equal(t, resp.TicketID, order.TicketID)
		assert.Equal(t, resp.QueueNumber, order.TokenNumber)
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		f := setupPOSService(t, false)
		ctx := context.Background()

		missing := validOrder()
		missing.TicketData = nil
		_, err := f.svc.CreateOrder(ctx, missing)
		assert.Error(t, err)

		missing = validOrder()
		missing.LocationID = ""
		_, err = f.svc.CreateOrder(ctx, missing)
		assert.Error(t, err)

		negative := validOrder()
		negative.TotalAmount = -1
		_, err = f.svc.CreateOrder(ctx, negative)
		assert.Error(t, err)
	})
}

func TestListAndGetTickets(t *testing.T) {
	f := setupPOSService(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateOrder(ctx, validOrder())
	require.NoError(t, err)

	rows, err := f.svc.ListTickets(ctx, "loc-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.TicketID, rows[0].ID)

	found, err := f.svc.GetTicket(ctx, created.TicketID)
	require.NoError(t, err)
	assert.Equal(t, created.TicketNumber, found.TicketNumber)

	_, err = f.svc.GetTicket(ctx, "missing")
	assert.Error(t, err)
}

package pos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/domain/ticket"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

func setupHubHandler(t *testing.T) (*HubHandler, *posFixture) {
	t.Helper()
	f := setupPOSService(t, false)
	return NewHubHandler(f.svc, f.tickets, f.hub, logger.NewLogger()), f
}

func kioskOrderMessage(t *testing.T, deviceType hubprotocol.DeviceType) *hubprotocol.Message {
	t.Helper()
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeNewOrder, "dev-kiosk", deviceType, hubprotocol.NewOrderPayload{
		LocationID:    "loc-1",
		OrderModeName: "Takeaway",
		Items:         []byte(`[{"name":"Latte","qty":1}]`),
		TotalAmount:   4.5,
		Source:        "KIOSK",
	})
	require.NoError(t, err)
	return msg
}

func seedOrderedTicket(t *testing.T, f *posFixture) string {
	t.Helper()
	resp, err := f.svc.CreateOrder(context.Background(), validOrder())
	require.NoError(t, err)
	// Discard the creation broadcast so tests only see handler output.
	f.hub.kds = nil
	f.hub.queue = nil
	return resp.TicketID
}

func TestHandleKioskOrder(t *testing.T) {
	t.Run("kiosk submission creates a local ticket", func(t *testing.T) {
		h, f := setupHubHandler(t)

		claimed := h.HandleMessage("dev-kiosk", kioskOrderMessage(t, hubprotocol.DeviceTypeKiosk))
		assert.True(t, claimed)

		rows, err := f.tickets.List(context.Background(), "loc-1")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].QueueNumber())
		assert.Equal(t, time.Now().Format("2006-01-02"), rows[0].BusinessDate())

		// The new ticket is announced to kitchen and queue displays.
		require.Len(t, f.hub.kds, 1)
		require.Len(t, f.hub.queue, 1)
	})

	t.Run("non-kiosk devices cannot submit orders", func(t *testing.T) {
		h, f := setupHubHandler(t)

		claimed := h.HandleMessage("dev-kds", kioskOrderMessage(t, hubprotocol.DeviceTypeKDS))
		assert.True(t, claimed)

		rows, err := f.tickets.List(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("malformed payload is discarded", func(t *testing.T) {
		h, f := setupHubHandler(t)

		msg := kioskOrderMessage(t, hubprotocol.DeviceTypeKiosk)
		msg.Payload = []byte(`{"total_amount":"not a number"}`)
		claimed := h.HandleMessage("dev-kiosk", msg)
		assert.True(t, claimed)

		rows, err := f.tickets.List(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestHandleOrderReady(t *testing.T) {
	t.Run("advances the ticket and calls the token", func(t *testing.T) {
		h, f := setupHubHandler(t)
		ticketID := seedOrderedTicket(t, f)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeOrderReady, "dev-kds", hubprotocol.DeviceTypeKDS, hubprotocol.OrderReadyPayload{
			TicketID:    ticketID,
			TokenNumber: 1,
		})
		require.NoError(t, err)
		assert.True(t, h.HandleMessage("dev-kds", msg))

		stored, err := f.tickets.FindByID(context.Background(), ticketID)
		require.NoError(t, err)
		assert.Equal(t, ticket.OrderReady, stored.OrderStatus())

		require.Len(t, f.hub.queue, 1)
		assert.Equal(t, hubprotocol.MsgTypeTokenCalled, f.hub.queue[0].MessageType)
		payload, err := hubprotocol.DecodePayload(f.hub.queue[0])
		require.NoError(t, err)
		called := payload.(*hubprotocol.TokenCalledPayload)
		assert.Equal(t, ticketID, called.TicketID)
		assert.Equal(t, 1, called.TokenNumber)
	})

	t.Run("unknown ticket still tolerated", func(t *testing.T) {
		h, f := setupHubHandler(t)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeOrderReady, "dev-kds", hubprotocol.DeviceTypeKDS, hubprotocol.OrderReadyPayload{
			TicketID:    "tk-missing",
			TokenNumber: 9,
		})
		require.NoError(t, err)
		assert.True(t, h.HandleMessage("dev-kds", msg))

		// The token call still goes out so the display flow is not blocked.
		require.Len(t, f.hub.queue, 1)
		assert.Equal(t, hubprotocol.MsgTypeTokenCalled, f.hub.queue[0].MessageType)
	})
}

func TestHandleTokenServed(t *testing.T) {
	t.Run("completes the ticket and fans the confirmation out", func(t *testing.T) {
		h, f := setupHubHandler(t)
		ticketID := seedOrderedTicket(t, f)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeTokenServed, "dev-queue", hubprotocol.DeviceTypeQueue, hubprotocol.TokenServedPayload{
			TicketID:    ticketID,
			TokenNumber: 1,
		})
		require.NoError(t, err)
		assert.True(t, h.HandleMessage("dev-queue", msg))

		stored, err := f.tickets.FindByID(context.Background(), ticketID)
		require.NoError(t, err)
		assert.Equal(t, ticket.OrderCompleted, stored.OrderStatus())

		require.Len(t, f.hub.queue, 1)
		assert.Equal(t, hubprotocol.MsgTypeTokenServed, f.hub.queue[0].MessageType)
	})

	t.Run("queue_served alias is handled", func(t *testing.T) {
		h, f := setupHubHandler(t)
		ticketID := seedOrderedTicket(t, f)

		msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeQueueServed, "dev-queue", hubprotocol.DeviceTypeQueue, hubprotocol.TokenServedPayload{
			TicketID:    ticketID,
			TokenNumber: 1,
		})
		require.NoError(t, err)
		assert.True(t, h.HandleMessage("dev-queue", msg))

		stored, err := f.tickets.FindByID(context.Background(), ticketID)
		require.NoError(t, err)
		assert.Equal(t, ticket.OrderCompleted, stored.OrderStatus())
	})
}

func TestHandleMessageIgnoresUnrelatedTypes(t *testing.T) {
	h, _ := setupHubHandler(t)

	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeRegister, "dev-x", hubprotocol.DeviceTypeKDS, hubprotocol.RegisterPayload{
		DeviceID:   "dev-x",
		DeviceType: hubprotocol.DeviceTypeKDS,
	})
	require.NoError(t, err)
	assert.False(t, h.HandleMessage("dev-x", msg))
}

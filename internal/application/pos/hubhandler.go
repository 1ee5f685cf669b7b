package pos

import (
	"context"
	"time"

	"github.com/slatepos/slate/internal/application/pos/dto"
	"github.com/slatepos/slate/internal/domain/ticket"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

// HubHandler routes messages arriving at the POS hub from peripheral
// devices: kiosk order submissions, kitchen ready notifications and queue
// served confirmations.
type HubHandler struct {
	orders  *Service
	tickets ticket.Repository
	hub     Broadcaster
	timeout time.Duration
	logger  logger.Interface
}

// NewHubHandler creates the hub message handler.
func NewHubHandler(orders *Service, tickets ticket.Repository, hub Broadcaster, log logger.Interface) *HubHandler {
	return &HubHandler{
		orders:  orders,
		tickets: tickets,
		hub:     hub,
		timeout: 10 * time.Second,
		logger:  log.Named("hubhandler"),
	}
}

// String implements fmt.Stringer for handler registration logs.
func (h *HubHandler) String() string {
	return "pos.HubHandler"
}

// HandleMessage processes one inbound device message. Returns true when the
// message type belongs to the order flow.
func (h *HubHandler) HandleMessage(deviceID string, msg *hubprotocol.Message) bool {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	switch msg.MessageType {
	case hubprotocol.MsgTypeNewOrder, hubprotocol.MsgTypeOrderCreated:
		// Only kiosks submit orders over the socket; displays never send this.
		if msg.DeviceType != hubprotocol.DeviceTypeKiosk {
			return true
		}
		h.handleKioskOrder(ctx, deviceID, msg)
		return true

	case hubprotocol.MsgTypeOrderReady:
		h.handleOrderReady(ctx, deviceID, msg)
		return true

	case hubprotocol.MsgTypeTokenServed, hubprotocol.MsgTypeQueueServed:
		h.handleTokenServed(ctx, deviceID, msg)
		return true
	}
	return false
}

func (h *HubHandler) handleKioskOrder(ctx context.Context, deviceID string, msg *hubprotocol.Message) {
	payload, err := hubprotocol.DecodePayload(msg)
	if err != nil {
		h.logger.Warnw("discarding malformed kiosk order", "device_id", deviceID, "error", err)
		return
	}
	order := payload.(*hubprotocol.NewOrderPayload)

	req := dto.CreateOrderRequest{
		TicketData:    msg.Payload,
		Items:         order.Items,
		LocationID:    order.LocationID,
		OrderModeName: order.OrderModeName,
		TotalAmount:   order.TotalAmount,
		Source:        "KIOSK",
	}
	resp, err := h.orders.CreateOrder(ctx, req)
	if err != nil {
		h.logger.Errorw("failed to create kiosk order", "device_id", deviceID, "error", err)
		return
	}
	h.logger.Infow("kiosk order accepted",
		"device_id", deviceID,
		"ticket_number", resp.TicketNumber,
		"queue_number", resp.QueueNumber,
	)
}

func (h *HubHandler) handleOrderReady(ctx context.Context, deviceID string, msg *hubprotocol.Message) {
	payload, err := hubprotocol.DecodePayload(msg)
	if err != nil {
		h.logger.Warnw("discarding malformed order_ready", "device_id", deviceID, "error", err)
		return
	}
	ready := payload.(*hubprotocol.OrderReadyPayload)

	h.advanceTicket(ctx, ready.TicketID, ticket.OrderReady)

	called := hubprotocol.TokenCalledPayload{
		TicketID:    ready.TicketID,
		TokenNumber: ready.TokenNumber,
	}
	out, err := hubprotocol.NewMessage(hubprotocol.MsgTypeTokenCalled, deviceID, hubprotocol.DeviceTypePOS, called)
	if err != nil {
		h.logger.Errorw("failed to build token_called broadcast", "error", err)
		return
	}
	receivers := h.hub.BroadcastToQueue(out)
	h.logger.Infow("order ready, token called",
		"ticket_id", ready.TicketID,
		"token_number", ready.TokenNumber,
		"queue_receivers", receivers,
	)
}

func (h *HubHandler) handleTokenServed(ctx context.Context, deviceID string, msg *hubprotocol.Message) {
	payload, err := hubprotocol.DecodePayload(msg)
	if err != nil {
		h.logger.Warnw("discarding malformed token_served", "device_id", deviceID, "error", err)
		return
	}
	served := payload.(*hubprotocol.TokenServedPayload)

	h.advanceTicket(ctx, served.TicketID, ticket.OrderCompleted)

	// Fan the confirmation back out so every queue display retires the token.
	out, err := hubprotocol.NewMessage(hubprotocol.MsgTypeTokenServed, deviceID, hubprotocol.DeviceTypePOS, served)
	if err != nil {
		h.logger.Errorw("failed to build token_served broadcast", "error", err)
		return
	}
	h.hub.BroadcastToQueue(out)
}

func (h *HubHandler) advanceTicket(ctx context.Context, ticketID string, status ticket.OrderStatus) {
	if ticketID == "" {
		return
	}
	t, err := h.tickets.FindByID(ctx, ticketID)
	if err != nil {
		h.logger.Warnw("ticket not found for status advance", "ticket_id", ticketID, "error", err)
		return
	}
	if err := t.AdvanceOrderStatus(status); err != nil {
		h.logger.Warnw("cannot advance order status", "ticket_id", ticketID, "error", err)
		return
	}
	if err := h.tickets.Update(ctx, t); err != nil {
		h.logger.Errorw("failed to persist order status", "ticket_id", ticketID, "error", err)
	}
}

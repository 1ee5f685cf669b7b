// Package pos implements order intake on the register and the hub-side
// message routing between kitchen and queue displays.
package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/slatepos/slate/internal/application/pos/dto"
	"github.com/slatepos/slate/internal/domain/ticket"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

// Broadcaster is the hub surface used to push messages to display devices.
type Broadcaster interface {
	BroadcastToKDS(msg *hubprotocol.Message) int
	BroadcastToQueue(msg *hubprotocol.Message) int
}

// TicketSyncer attempts an immediate backend submission for a fresh ticket.
type TicketSyncer interface {
	IsOnline(ctx context.Context) bool
	SyncTicketNow(ctx context.Context, t *ticket.Ticket) error
}

// Service handles order creation on the POS device. Orders persist locally
// first; the backend and the connected displays are best-effort downstream.
type Service struct {
	tickets  ticket.Repository
	syncer   TicketSyncer
	hub      Broadcaster
	deviceID string
	validate *validator.Validate
	logger   logger.Interface
}

// NewService creates the order service. deviceID stamps outgoing broadcasts.
func NewService(
	tickets ticket.Repository,
	syncer TicketSyncer,
	hub Broadcaster,
	deviceID string,
	log logger.Interface,
) *Service {
	return &Service{
		tickets:  tickets,
		syncer:   syncer,
		hub:      hub,
		deviceID: deviceID,
		validate: validator.New(),
		logger:   log.Named("pos"),
	}
}

// CreateOrder finalizes a sale. The queue number comes from the
// transactional allocator, the ticket is written locally no matter what,
// and a reachable backend gets the ticket immediately so it lands SYNCED.
// Connected kitchen and queue displays are notified after the row persists.
func (s *Service) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("invalid order", err)
	}

	businessDate := req.BusinessDate
	if businessDate == "" {
		businessDate = time.Now().Format("2006-01-02")
	}

	t, err := s.tickets.CreateWithQueueNumber(ctx, req.LocationID, businessDate,
		func(queueNumber int) (*ticket.Ticket, error) {
			return ticket.NewTicket(
				formatTicketNumber(businessDate, queueNumber),
				req.TicketData,
				req.LocationID,
				req.OrderModeName,
				req.TotalAmount,
				queueNumber,
				businessDate,
			)
		})
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypePersistence) {
			return nil, err
		}
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if s.syncer.IsOnline(ctx) {
		if err := s.syncer.SyncTicketNow(ctx, t); err != nil {
			// The ticket stays PENDING and the next push run picks it up.
			s.logger.Warnw("immediate sync failed, keeping ticket pending",
				"ticket_number", t.TicketNumber(),
				"error", err,
			)
		} else if err := s.tickets.Update(ctx, t); err != nil {
			return nil, err
		}
	}

	s.broadcastNewOrder(t, req.Items, req.Source)

	s.logger.Infow("order created",
		"ticket_id", t.ID(),
		"ticket_number", t.TicketNumber(),
		"queue_number", t.QueueNumber(),
		"sync_status", t.SyncStatus(),
	)
	return &dto.OrderResponse{
		TicketID:     t.ID(),
		TicketNumber: t.TicketNumber(),
		QueueNumber:  t.QueueNumber(),
		OrderStatus:  string(t.OrderStatus()),
		SyncStatus:   string(t.SyncStatus()),
		BusinessDate: t.BusinessDate(),
	}, nil
}

func (s *Service) broadcastNewOrder(t *ticket.Ticket, items []byte, source string) {
	payload := hubprotocol.NewOrderPayload{
		TicketID:      t.ID(),
		TicketNumber:  t.TicketNumber(),
		TokenNumber:   t.QueueNumber(),
		LocationID:    t.LocationID(),
		OrderModeName: t.OrderModeName(),
		Items:         items,
		TotalAmount:   t.TotalAmount(),
		Source:        source,
	}
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeNewOrder, s.deviceID, hubprotocol.DeviceTypePOS, payload)
	if err != nil {
		s.logger.Errorw("failed to build new_order broadcast", "error", err)
		return
	}
	kds := s.hub.BroadcastToKDS(msg)
	queue := s.hub.BroadcastToQueue(msg)
	s.logger.Debugw("new order broadcast",
		"ticket_number", t.TicketNumber(),
		"kds_receivers", kds,
		"queue_receivers", queue,
	)
}

// ListTickets returns stored tickets for a location, newest last.
func (s *Service) ListTickets(ctx context.Context, locationID string) ([]dto.TicketResponse, error) {
	rows, err := s.tickets.List(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TicketResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, toTicketResponse(t))
	}
	return out, nil
}

// GetTicket returns one stored ticket.
func (s *Service) GetTicket(ctx context.Context, id string) (*dto.TicketResponse, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTicketResponse(t)
	return &resp, nil
}

func toTicketResponse(t *ticket.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           t.ID(),
		TicketNumber: t.TicketNumber(),
		QueueNumber:  t.QueueNumber(),
		OrderStatus:  string(t.OrderStatus()),
		SyncStatus:   string(t.SyncStatus()),
		SyncError:    t.SyncError(),
		TotalAmount:  t.TotalAmount(),
		BusinessDate: t.BusinessDate(),
		CreatedAt:    t.CreatedAt().UnixMilli(),
	}
}

func formatTicketNumber(businessDate string, queueNumber int) string {
	compact := ""
	for _, r := range businessDate {
		if r != '-' {
			compact += string(r)
		}
	}
	return fmt.Sprintf("T%s-%04d", compact, queueNumber)
}

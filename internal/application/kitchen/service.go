// Package kitchen implements the kitchen display flow on a KDS-role
// device: ingesting new_order messages from the hub and reporting
// order_ready back when the kitchen finishes an item.
package kitchen

import (
	"context"

	"github.com/slatepos/slate/internal/domain/kitchen"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

// MessageSender pushes a message to the hub over the device transport.
type MessageSender interface {
	Send(msg *hubprotocol.Message)
}

// TicketView is the display-facing snapshot of a kitchen work item.
type TicketView struct {
	ID            string `json:"id"`
	TicketNumber  string `json:"ticket_number"`
	TokenNumber   int    `json:"token_number"`
	OrderModeName string `json:"order_mode_name"`
	Status        string `json:"status"`
	Items         string `json:"items"`
	CreatedAt     int64  `json:"created_at"`
}

// Service drives the kitchen display.
type Service struct {
	repo     kitchen.Repository
	sender   MessageSender
	deviceID string
	logger   logger.Interface
}

// NewService creates the kitchen display service.
func NewService(repo kitchen.Repository, sender MessageSender, deviceID string, log logger.Interface) *Service {
	return &Service{
		repo:     repo,
		sender:   sender,
		deviceID: deviceID,
		logger:   log.Named("kitchen"),
	}
}

// HandleHubMessage ingests a new_order broadcast. Replayed messages upsert
// by ticket id and never duplicate a work item.
func (s *Service) HandleHubMessage(msg *hubprotocol.Message) {
	if msg.MessageType != hubprotocol.MsgTypeNewOrder && msg.MessageType != hubprotocol.MsgTypeOrderCreated {
		return
	}
	payload, err := hubprotocol.DecodePayload(msg)
	if err != nil {
		s.logger.Warnw("discarding malformed new_order", "error", err)
		return
	}
	order := payload.(*hubprotocol.NewOrderPayload)

	item, err := kitchen.NewKDSTicket(
		order.TicketID,
		order.TicketNumber,
		order.TicketID,
		order.LocationID,
		order.OrderModeName,
		order.Items,
		order.TotalAmount,
		order.TokenNumber,
	)
	if err != nil {
		s.logger.Warnw("cannot build kds ticket from order", "ticket_id", order.TicketID, "error", err)
		return
	}

	ctx := context.Background()
	if err := s.repo.Save(ctx, item); err != nil {
		s.logger.Errorw("failed to store kds ticket", "ticket_id", order.TicketID, "error", err)
		return
	}
	s.logger.Infow("kitchen ticket received",
		"ticket_number", order.TicketNumber,
		"token_number", order.TokenNumber,
	)
}

// ListActive returns the open work items in arrival order.
func (s *Service) ListActive(ctx context.Context, locationID string) ([]TicketView, error) {
	items, err := s.repo.ListActive(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]TicketView, 0, len(items))
	for _, k := range items {
		out = append(out, toView(k))
	}
	return out, nil
}

// StartTicket moves a work item to IN_PROGRESS.
func (s *Service) StartTicket(ctx context.Context, id string) (*TicketView, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Start(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	v := toView(item)
	return &v, nil
}

// MarkReady completes a work item and notifies the hub so queue displays
// call the token.
func (s *Service) MarkReady(ctx context.Context, id string) (*TicketView, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.MarkReady(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	payload := hubprotocol.OrderReadyPayload{
		TicketID:     item.OrderID(),
		TicketNumber: item.TicketNumber(),
		TokenNumber:  item.TokenNumber(),
	}
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeOrderReady, s.deviceID, hubprotocol.DeviceTypeKDS, payload)
	if err != nil {
		s.logger.Errorw("failed to build order_ready message", "error", err)
	} else {
		s.sender.Send(msg)
	}

	s.logger.Infow("kitchen ticket ready",
		"ticket_number", item.TicketNumber(),
		"token_number", item.TokenNumber(),
	)
	v := toView(item)
	return &v, nil
}

// Remove deletes a served or stale work item from the display.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func toView(k *kitchen.KDSTicket) TicketView {
	return TicketView{
		ID:            k.ID(),
		TicketNumber:  k.TicketNumber(),
		TokenNumber:   k.TokenNumber(),
		OrderModeName: k.OrderModeName(),
		Status:        k.Status().String(),
		Items:         string(k.Items()),
		CreatedAt:     k.CreatedAt().UnixMilli(),
	}
}

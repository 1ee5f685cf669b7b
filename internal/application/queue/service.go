// Package queue implements the queue display flow on a QUEUE-role device:
// tracking waiting tokens from new_order broadcasts, calling them when the
// kitchen reports ready, and confirming served pickups back to the hub.
package queue

import (
	"context"

	"github.com/slatepos/slate/internal/domain/queue"
	"github.com/slatepos/slate/internal/shared/hubprotocol"
	"github.com/slatepos/slate/internal/shared/logger"
)

// MessageSender pushes a message to the hub over the device transport.
type MessageSender interface {
	Send(msg *hubprotocol.Message)
}

// TokenView is the display-facing snapshot of a queue token.
type TokenView struct {
	ID           string `json:"id"`
	TicketNumber string `json:"ticket_number"`
	TokenNumber  int    `json:"token_number"`
	Status       string `json:"status"`
	Source       string `json:"source"`
	CreatedAt    int64  `json:"created_at"`
}

// Service drives the queue display.
type Service struct {
	repo     queue.Repository
	sender   MessageSender
	deviceID string
	logger   logger.Interface
}

// NewService creates the queue display service.
func NewService(repo queue.Repository, sender MessageSender, deviceID string, log logger.Interface) *Service {
	return &Service{
		repo:     repo,
		sender:   sender,
		deviceID: deviceID,
		logger:   log.Named("queue"),
	}
}

// HandleHubMessage ingests hub broadcasts. new_order creates a WAITING
// token, token_called advances it to CALLED, token_served retires it.
// Status only moves forward, so replayed or out-of-order messages cannot
// regress a token.
func (s *Service) HandleHubMessage(msg *hubprotocol.Message) {
	ctx := context.Background()

	switch msg.MessageType {
	case hubprotocol.MsgTypeNewOrder, hubprotocol.MsgTypeOrderCreated:
		s.handleNewOrder(ctx, msg)
	case hubprotocol.MsgTypeTokenCalled, hubprotocol.MsgTypeQueueCall:
		s.advanceToken(ctx, msg, queue.StatusCalled)
	case hubprotocol.MsgTypeTokenServed, hubprotocol.MsgTypeQueueServed:
		s.advanceToken(ctx, msg, queue.StatusServed)
	}
}

func (s *Service) handleNewOrder(ctx context.Context, msg *hubprotocol.Message) {
	payload, err := hubprotocol.DecodePayload(msg)
	if err != nil {
		s.logger.Warnw("discarding malformed new_order", "error", err)
		return
	}
	order := payload.(*hubprotocol.NewOrderPayload)

	token, err := queue.NewToken(
		order.TicketID,
		order.TicketID,
		order.TicketNumber,
		order.TokenNumber,
		order.Source,
		order.LocationID,
		order.OrderModeName,
	)
	if err != nil {
		s.logger.Warnw("cannot build queue token from order", "ticket_id", order.TicketID, "error", err)
		return
	}
	if err := s.repo.Save(ctx, token); err != nil {
		s.logger.Errorw("failed to store queue token", "ticket_id", order.TicketID, "error", err)
		return
	}
	s.logger.Infow("queue token waiting",
		"ticket_number", order.TicketNumber,
		"token_number", order.TokenNumber,
	)
}

func (s *Service) advanceToken(ctx context.Context, msg *hubprotocol.Message, next queue.Status) {
	payload, err := hubprotocol.DecodePayload(msg)
	if err != nil {
		s.logger.Warnw("discarding malformed token message", "message_type", msg.MessageType, "error", err)
		return
	}

	var ticketID string
	var tokenNumber int
	switch p := payload.(type) {
	case *hubprotocol.TokenCalledPayload:
		ticketID, tokenNumber = p.TicketID, p.TokenNumber
	case *hubprotocol.TokenServedPayload:
		ticketID, tokenNumber = p.TicketID, p.TokenNumber
	default:
		return
	}

	token, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		// The token may predate this display's connection. Create it in the
		// target state so the board still shows the call.
		token, err = queue.NewToken(ticketID, ticketID, "", tokenNumber, "", "", "")
		if err != nil {
			s.logger.Warnw("cannot materialize unknown token", "ticket_id", ticketID, "error", err)
			return
		}
		if err := token.Advance(next); err != nil {
			s.logger.Warnw("cannot advance new token", "ticket_id", ticketID, "error", err)
			return
		}
		if err := s.repo.Save(ctx, token); err != nil {
			s.logger.Errorw("failed to store queue token", "ticket_id", ticketID, "error", err)
		}
		return
	}

	if err := token.Advance(next); err != nil {
		s.logger.Debugw("ignoring non-forward token transition",
			"ticket_id", ticketID,
			"from", token.Status(),
			"to", next,
		)
		return
	}
	if err := s.repo.Update(ctx, token); err != nil {
		s.logger.Errorw("failed to update queue token", "ticket_id", ticketID, "error", err)
		return
	}
	s.logger.Infow("queue token advanced",
		"token_number", token.TokenNumber(),
		"status", token.Status(),
	)
}

// ServeToken marks a called token as picked up and confirms it to the hub.
func (s *Service) ServeToken(ctx context.Context, id string) (*TokenView, error) {
	token, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := token.Advance(queue.StatusServed); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, token); err != nil {
		return nil, err
	}

	payload := hubprotocol.TokenServedPayload{
		TicketID:    token.TicketID(),
		TokenNumber: token.TokenNumber(),
	}
	msg, err := hubprotocol.NewMessage(hubprotocol.MsgTypeTokenServed, s.deviceID, hubprotocol.DeviceTypeQueue, payload)
	if err != nil {
		s.logger.Errorw("failed to build token_served message", "error", err)
	} else {
		s.sender.Send(msg)
	}

	v := toView(token)
	return &v, nil
}

// Board returns the waiting and called tokens for the display.
func (s *Service) Board(ctx context.Context, locationID string) (waiting, called []TokenView, err error) {
	waitingTokens, err := s.repo.ListByStatus(ctx, locationID, queue.StatusWaiting)
	if err != nil {
		return nil, nil, err
	}
	calledTokens, err := s.repo.ListByStatus(ctx, locationID, queue.StatusCalled)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range waitingTokens {
		waiting = append(waiting, toView(t))
	}
	for _, t := range calledTokens {
		called = append(called, toView(t))
	}
	return waiting, called, nil
}

func toView(t *queue.Token) TokenView {
	return TokenView{
		ID:           t.ID(),
		TicketNumber: t.TicketNumber(),
		TokenNumber:  t.TokenNumber(),
		Status:       t.Status().String(),
		Source:       t.Source(),
		CreatedAt:    t.CreatedAt().UnixMilli(),
	}
}

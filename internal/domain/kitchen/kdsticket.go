// Package kitchen holds the KDS work item created when a kitchen display
// receives a new_order message.
package kitchen

import (
	"fmt"
	"time"
)

// Status is the kitchen-side lifecycle of a work item.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
)

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusReady:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid kds ticket status %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

type KDSTicket struct {
	id            string
	ticketNumber  string
	orderID       string
	locationID    string
	orderModeName string
	status        Status
	items         []byte // serialized line items for display
	totalAmount   float64
	tokenNumber   int
	createdAt     time.Time
	updatedAt     time.Time
}

// NewKDSTicket creates a PENDING work item from a received order. id is the
// originating ticket id so duplicates from message replay upsert cleanly.
func NewKDSTicket(
	id string,
	ticketNumber string,
	orderID string,
	locationID string,
	orderModeName string,
	items []byte,
	totalAmount float64,
	tokenNumber int,
) (*KDSTicket, error) {
	if id == "" {
		return nil, fmt.Errorf("kds ticket id is required")
	}
	if ticketNumber == "" {
		return nil, fmt.Errorf("ticket number is required")
	}
	if len(items) == 0 {
		items = []byte("[]")
	}

	now := time.Now()
	return &KDSTicket{
		id:            id,
		ticketNumber:  ticketNumber,
		orderID:       orderID,
		locationID:    locationID,
		orderModeName: orderModeName,
		status:        StatusPending,
		items:         items,
		totalAmount:   totalAmount,
		tokenNumber:   tokenNumber,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructKDSTicket(
	id string,
	ticketNumber string,
	orderID string,
	locationID string,
	orderModeName string,
	status Status,
	items []byte,
	totalAmount float64,
	tokenNumber int,
	createdAt, updatedAt time.Time,
) (*KDSTicket, error) {
	if id == "" {
		return nil, fmt.Errorf("kds ticket id is required")
	}
	return &KDSTicket{
		id:            id,
		ticketNumber:  ticketNumber,
		orderID:       orderID,
		locationID:    locationID,
		orderModeName: orderModeName,
		status:        status,
		items:         items,
		totalAmount:   totalAmount,
		tokenNumber:   tokenNumber,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (k *KDSTicket) ID() string            { return k.id }
func (k *KDSTicket) TicketNumber() string  { return k.ticketNumber }
func (k *KDSTicket) OrderID() string       { return k.orderID }
func (k *KDSTicket) LocationID() string    { return k.locationID }
func (k *KDSTicket) OrderModeName() string { return k.orderModeName }
func (k *KDSTicket) Status() Status        { return k.status }
func (k *KDSTicket) Items() []byte         { return k.items }
func (k *KDSTicket) TotalAmount() float64  { return k.totalAmount }
func (k *KDSTicket) TokenNumber() int      { return k.tokenNumber }
func (k *KDSTicket) CreatedAt() time.Time  { return k.createdAt }
func (k *KDSTicket) UpdatedAt() time.Time  { return k.updatedAt }

// Start moves the item to IN_PROGRESS.
func (k *KDSTicket) Start() error {
	if k.status != StatusPending {
		return fmt.Errorf("cannot start kds ticket from %s", k.status)
	}
	k.status = StatusInProgress
	k.updatedAt = time.Now()
	return nil
}

// MarkReady completes the item; PENDING may skip IN_PROGRESS.
func (k *KDSTicket) MarkReady() error {
	if k.status == StatusReady {
		return fmt.Errorf("kds ticket already ready")
	}
	k.status = StatusReady
	k.updatedAt = time.Now()
	return nil
}

// Package queue holds the customer-facing queue token shown on queue
// display devices. Token status only moves forward.
package queue

import (
	"fmt"
	"time"
)

// Status is the queue token lifecycle.
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusCalled  Status = "CALLED"
	StatusServed  Status = "SERVED"
)

// statusRank orders statuses so transitions can be checked strictly forward.
var statusRank = map[Status]int{
	StatusWaiting: 0,
	StatusCalled:  1,
	StatusServed:  2,
}

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWaiting, StatusCalled, StatusServed:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid queue token status %q", s)
	}
}

// CanAdvanceTo reports whether moving from s to next is a forward step.
func (s Status) CanAdvanceTo(next Status) bool {
	nr, ok := statusRank[next]
	if !ok {
		return false
	}
	return nr > statusRank[s]
}

func (s Status) String() string {
	return string(s)
}

type Token struct {
	id           string
	ticketID     string
	ticketNumber string
	tokenNumber  int
	status       Status
	source       string
	locationID   string
	orderMode    string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewToken creates a WAITING token from a received order message. id is the
// originating ticket id so replayed messages upsert instead of duplicating.
func NewToken(
	id string,
	ticketID string,
	ticketNumber string,
	tokenNumber int,
	source string,
	locationID string,
	orderMode string,
) (*Token, error) {
	if id == "" {
		return nil, fmt.Errorf("token id is required")
	}
	if tokenNumber < 1 {
		return nil, fmt.Errorf("token number must be positive")
	}

	now := time.Now()
	return &Token{
		id:           id,
		ticketID:     ticketID,
		ticketNumber: ticketNumber,
		tokenNumber:  tokenNumber,
		status:       StatusWaiting,
		source:       source,
		locationID:   locationID,
		orderMode:    orderMode,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructToken(
	id string,
	ticketID string,
	ticketNumber string,
	tokenNumber int,
	status Status,
	source string,
	locationID string,
	orderMode string,
	createdAt, updatedAt time.Time,
) (*Token, error) {
	if id == "" {
		return nil, fmt.Errorf("token id is required")
	}
	return &Token{
		id:           id,
		ticketID:     ticketID,
		ticketNumber: ticketNumber,
		tokenNumber:  tokenNumber,
		status:       status,
		source:       source,
		locationID:   locationID,
		orderMode:    orderMode,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (t *Token) ID() string           { return t.id }
func (t *Token) TicketID() string     { return t.ticketID }
func (t *Token) TicketNumber() string { return t.ticketNumber }
func (t *Token) TokenNumber() int     { return t.tokenNumber }
func (t *Token) Status() Status       { return t.status }
func (t *Token) Source() string       { return t.source }
func (t *Token) LocationID() string   { return t.locationID }
func (t *Token) OrderMode() string    { return t.orderMode }
func (t *Token) CreatedAt() time.Time { return t.createdAt }
func (t *Token) UpdatedAt() time.Time { return t.updatedAt }

// Advance moves the token strictly forward; regressions are rejected.
func (t *Token) Advance(next Status) error {
	if _, err := ParseStatus(string(next)); err != nil {
		return err
	}
	if !t.status.CanAdvanceTo(next) {
		return fmt.Errorf("cannot advance queue token from %s to %s", t.status, next)
	}
	t.status = next
	t.updatedAt = time.Now()
	return nil
}

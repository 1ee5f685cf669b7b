// Package ticket holds the sale-transaction aggregate queued for backend
// submission, together with its sync-status lifecycle.
package ticket

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slatepos/slate/internal/domain/shared"
)

type Ticket struct {
	id            string
	ticketNumber  string
	ticketData    []byte
	syncStatus    shared.SyncStatus
	syncError     string
	syncAttempts  int
	orderStatus   OrderStatus
	locationID    string
	orderModeName string
	totalAmount   float64
	queueNumber   int
	businessDate  string
	createdAt     time.Time
	updatedAt     time.Time
	syncedAt      *time.Time
}

// NewTicket creates a ticket pending backend submission. ticketData is the
// serialized full payload (header, line orders, payments, transactions);
// queueNumber must come from the transactional allocator.
func NewTicket(
	ticketNumber string,
	ticketData []byte,
	locationID string,
	orderModeName string,
	totalAmount float64,
	queueNumber int,
	businessDate string,
) (*Ticket, error) {
	if ticketNumber == "" {
		return nil, fmt.Errorf("ticket number is required")
	}
	if len(ticketData) == 0 {
		return nil, fmt.Errorf("ticket data is required")
	}
	if locationID == "" {
		return nil, fmt.Errorf("location id is required")
	}
	if queueNumber < 1 {
		return nil, fmt.Errorf("queue number must be positive")
	}
	if businessDate == "" {
		return nil, fmt.Errorf("business date is required")
	}

	now := time.Now()
	return &Ticket{
		id:            uuid.NewString(),
		ticketNumber:  ticketNumber,
		ticketData:    ticketData,
		syncStatus:    shared.SyncPending,
		orderStatus:   OrderInProgress,
		locationID:    locationID,
		orderModeName: orderModeName,
		totalAmount:   totalAmount,
		queueNumber:   queueNumber,
		businessDate:  businessDate,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructTicket(
	id string,
	ticketNumber string,
	ticketData []byte,
	syncStatus shared.SyncStatus,
	syncError string,
	syncAttempts int,
	orderStatus OrderStatus,
	locationID string,
	orderModeName string,
	totalAmount float64,
	queueNumber int,
	businessDate string,
	createdAt, updatedAt time.Time,
	syncedAt *time.Time,
) (*Ticket, error) {
	if id == "" {
		return nil, fmt.Errorf("ticket id is required")
	}
	if (syncStatus == shared.SyncSynced) != (syncedAt != nil) {
		return nil, fmt.Errorf("synced_at must be set exactly when status is SYNCED")
	}
	return &Ticket{
		id:            id,
		ticketNumber:  ticketNumber,
		ticketData:    ticketData,
		syncStatus:    syncStatus,
		syncError:     syncError,
		syncAttempts:  syncAttempts,
		orderStatus:   orderStatus,
		locationID:    locationID,
		orderModeName: orderModeName,
		totalAmount:   totalAmount,
		queueNumber:   queueNumber,
		businessDate:  businessDate,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		syncedAt:      syncedAt,
	}, nil
}

func (t *Ticket) ID() string                    { return t.id }
func (t *Ticket) TicketNumber() string          { return t.ticketNumber }
func (t *Ticket) TicketData() []byte            { return t.ticketData }
func (t *Ticket) SyncStatus() shared.SyncStatus { return t.syncStatus }
func (t *Ticket) SyncError() string             { return t.syncError }
func (t *Ticket) SyncAttempts() int             { return t.syncAttempts }
func (t *Ticket) OrderStatus() OrderStatus      { return t.orderStatus }
func (t *Ticket) LocationID() string            { return t.locationID }
func (t *Ticket) OrderModeName() string         { return t.orderModeName }
func (t *Ticket) TotalAmount() float64          { return t.totalAmount }
func (t *Ticket) QueueNumber() int              { return t.queueNumber }
func (t *Ticket) BusinessDate() string          { return t.businessDate }
func (t *Ticket) CreatedAt() time.Time          { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time          { return t.updatedAt }
func (t *Ticket) SyncedAt() *time.Time          { return t.syncedAt }

// MarkSyncedOnCreate records an immediate successful online submission.
// The ticket goes straight to SYNCED without a SYNCING transition since the
// remote call completed before the row is first written.
func (t *Ticket) MarkSyncedOnCreate() error {
	if t.syncStatus != shared.SyncPending || t.syncAttempts != 0 {
		return fmt.Errorf("immediate sync only applies to a fresh ticket")
	}
	now := time.Now()
	t.syncStatus = shared.SyncSynced
	t.syncedAt = &now
	t.updatedAt = now
	return nil
}

// BeginSync moves PENDING or FAILED to SYNCING.
func (t *Ticket) BeginSync() error {
	if !t.syncStatus.CanTransitionTo(shared.SyncSyncing) {
		return fmt.Errorf("cannot begin sync from %s", t.syncStatus)
	}
	t.syncStatus = shared.SyncSyncing
	t.updatedAt = time.Now()
	return nil
}

// CompleteSync moves SYNCING to SYNCED and stamps synced_at.
func (t *Ticket) CompleteSync() error {
	if !t.syncStatus.CanTransitionTo(shared.SyncSynced) {
		return fmt.Errorf("cannot complete sync from %s", t.syncStatus)
	}
	now := time.Now()
	t.syncStatus = shared.SyncSynced
	t.syncError = ""
	t.syncedAt = &now
	t.updatedAt = now
	return nil
}

// FailSync moves SYNCING to FAILED, records the error and counts the attempt.
func (t *Ticket) FailSync(reason string) error {
	if !t.syncStatus.CanTransitionTo(shared.SyncFailed) {
		return fmt.Errorf("cannot fail sync from %s", t.syncStatus)
	}
	t.syncStatus = shared.SyncFailed
	t.syncError = reason
	t.syncAttempts++
	t.updatedAt = time.Now()
	return nil
}

// AdvanceOrderStatus updates the fulfilment status.
func (t *Ticket) AdvanceOrderStatus(status OrderStatus) error {
	if _, err := ParseOrderStatus(string(status)); err != nil {
		return err
	}
	t.orderStatus = status
	t.updatedAt = time.Now()
	return nil
}

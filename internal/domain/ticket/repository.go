package ticket

import (
	"context"

	"github.com/slatepos/slate/internal/domain/shared"
)

// Repository persists tickets. Pending scans return rows in created_at
// ascending order so submission preserves creation order.
type Repository interface {
	Save(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, t *Ticket) error
	FindByID(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context, locationID string) ([]*Ticket, error)
	ListPending(ctx context.Context) ([]*Ticket, error)
	ListByStatus(ctx context.Context, status shared.SyncStatus) ([]*Ticket, error)
	Stats(ctx context.Context) (shared.SyncStats, error)

	// CreateWithQueueNumber allocates max(queue_number)+1 for the location
	// and business date and persists the ticket returned by build, both in
	// one write transaction so concurrent creations never share a number.
	// The first allocation of a date yields 1.
	CreateWithQueueNumber(ctx context.Context, locationID, businessDate string, build func(queueNumber int) (*Ticket, error)) (*Ticket, error)

	// NextQueueNumber peeks at the number the next creation would take.
	NextQueueNumber(ctx context.Context, locationID, businessDate string) (int, error)

	DeleteAll(ctx context.Context) error
}

package workday

import (
	"context"

	"github.com/slatepos/slate/internal/domain/shared"
)

// Repository persists workdays. FindActive enforces the single-active-shift
// invariant per location.
type Repository interface {
	Save(ctx context.Context, w *Workday) error
	Update(ctx context.Context, w *Workday) error
	FindByLocalID(ctx context.Context, localID string) (*Workday, error)
	FindActive(ctx context.Context, locationID string) (*Workday, error)
	ListPending(ctx context.Context) ([]*Workday, error)

	// Stats counts workdays by sync status. Together with the ticket
	// counts it feeds the logout and shift-close gates.
	Stats(ctx context.Context) (shared.SyncStats, error)

	DeleteAll(ctx context.Context) error
}

package kitchen

import "context"

// Repository persists KDS work items. ListActive returns non-deleted items
// in created_at ascending order for display.
type Repository interface {
	Save(ctx context.Context, k *KDSTicket) error
	Update(ctx context.Context, k *KDSTicket) error
	FindByID(ctx context.Context, id string) (*KDSTicket, error)
	ListActive(ctx context.Context, locationID string) ([]*KDSTicket, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

package queue

import "context"

// Repository persists queue tokens for the queue display.
type Repository interface {
	Save(ctx context.Context, t *Token) error
	Update(ctx context.Context, t *Token) error
	FindByID(ctx context.Context, id string) (*Token, error)
	ListByStatus(ctx context.Context, locationID string, status Status) ([]*Token, error)
	DeleteAll(ctx context.Context) error
}

package device

import "context"

// Repository persists the single device profile. Get returns a not-found
// persistence error before first registration.
type Repository interface {
	Get(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context) error
}

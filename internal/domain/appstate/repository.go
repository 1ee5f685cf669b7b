package appstate

import "context"

// Repository persists the singleton state row through narrow setters, each
// an atomic partial update.
type Repository interface {
	Get(ctx context.Context) (State, error)

	SetTenant(ctx context.Context, domain, accessToken string) error
	SetLocation(ctx context.Context, locationID, brandID string) error
	SetOrderModes(ctx context.Context, orderModeIDs, defaultMode string) error
	SetDeviceRole(ctx context.Context, role string) error
	SetSyncStatus(ctx context.Context, status string) error
	SetAppearance(ctx context.Context, theme, language string) error
	SetKDSViewSettings(ctx context.Context, settings string) error

	// Reset restores the singleton row to its first-boot state.
	Reset(ctx context.Context) error
}

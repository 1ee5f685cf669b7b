package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slatepos/slate/internal/domain/appstate"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

type AppStateRepository struct {
	db *gorm.DB
}

func NewAppStateRepository(db *gorm.DB) *AppStateRepository {
	return &AppStateRepository{db: db}
}

// Get returns the singleton row, creating it on first boot so exactly one
// row exists from then on.
func (r *AppStateRepository) Get(ctx context.Context) (appstate.State, error) {
	model, err := r.fetch(ctx)
	if err != nil {
		return appstate.State{}, err
	}
	return appstate.State{
		TenantDomain:     model.TenantDomain,
		AccessToken:      model.AccessToken,
		LocationID:       model.LocationID,
		BrandID:          model.BrandID,
		OrderModeIDs:     model.OrderModeIDs,
		DefaultOrderMode: model.DefaultOrderMode,
		DeviceRole:       model.DeviceRole,
		SyncStatus:       model.SyncStatus,
		Theme:            model.Theme,
		Language:         model.Language,
		KDSViewSettings:  model.KDSViewSettings,
	}, nil
}

func (r *AppStateRepository) SetTenant(ctx context.Context, domain, accessToken string) error {
	return r.patch(ctx, map[string]any{
		"tenant_domain": domain,
		"access_token":  accessToken,
	})
}

func (r *AppStateRepository) SetLocation(ctx context.Context, locationID, brandID string) error {
	return r.patch(ctx, map[string]any{
		"location_id": locationID,
		"brand_id":    brandID,
	})
}

func (r *AppStateRepository) SetOrderModes(ctx context.Context, orderModeIDs, defaultMode string) error {
	if orderModeIDs == "" {
		orderModeIDs = "[]"
	}
	return r.patch(ctx, map[string]any{
		"order_mode_ids":     orderModeIDs,
		"default_order_mode": defaultMode,
	})
}

func (r *AppStateRepository) SetDeviceRole(ctx context.Context, role string) error {
	return r.patch(ctx, map[string]any{"device_role": role})
}

func (r *AppStateRepository) SetSyncStatus(ctx context.Context, status string) error {
	return r.patch(ctx, map[string]any{"sync_status": status})
}

func (r *AppStateRepository) SetAppearance(ctx context.Context, theme, language string) error {
	return r.patch(ctx, map[string]any{
		"theme":    theme,
		"language": language,
	})
}

func (r *AppStateRepository) SetKDSViewSettings(ctx context.Context, settings string) error {
	return r.patch(ctx, map[string]any{"kds_view_settings": settings})
}

// Reset restores the singleton row to its first-boot state.
func (r *AppStateRepository) Reset(ctx context.Context) error {
	return r.patch(ctx, map[string]any{
		"tenant_domain":      "",
		"access_token":       "",
		"location_id":        "",
		"brand_id":           "",
		"order_mode_ids":     "[]",
		"default_order_mode": "",
		"device_role":        "",
		"sync_status":        "",
		"theme":              "",
		"language":           "",
		"kds_view_settings":  "",
	})
}

// fetch loads the singleton row, inserting the empty first-boot row when
// missing. OnConflict DoNothing makes the bootstrap race-free.
func (r *AppStateRepository) fetch(ctx context.Context) (*models.AppStateModel, error) {
	var model models.AppStateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", appstate.SingletonID).
		First(&model).Error
	if err == nil {
		return &model, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, wrapDBError("failed to load app state", err)
	}

	model = models.AppStateModel{ID: appstate.SingletonID, OrderModeIDs: "[]"}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error; err != nil {
		return nil, wrapDBError("failed to initialize app state", err)
	}
	return &model, nil
}

// patch applies an atomic partial update to the singleton row.
func (r *AppStateRepository) patch(ctx context.Context, fields map[string]any) error {
	if _, err := r.fetch(ctx); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AppStateModel{}).
		Where("id = ?", appstate.SingletonID).
		Updates(fields).Error; err != nil {
		return wrapDBError("failed to update app state", err)
	}
	return nil
}

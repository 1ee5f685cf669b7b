package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/slatepos/slate/internal/domain/device"
	"github.com/slatepos/slate/internal/infrastructure/persistence/mappers"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

type DeviceRepository struct {
	db     *gorm.DB
	mapper mappers.DeviceMapper
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{
		db:     db,
		mapper: mappers.NewDeviceMapper(),
	}
}

// Get returns the single device profile, or a not-found persistence error
// before first registration.
func (r *DeviceRepository) Get(ctx context.Context) (*device.Profile, error) {
	var model models.DeviceModel
	if err := r.db.WithContext(ctx).First(&model).Error; err != nil {
		return nil, wrapDBError("device not registered", err)
	}
	return r.mapper.ToDomain(&model)
}

// Save creates the profile. At most one row may exist; a second create is
// rejected as a constraint violation.
func (r *DeviceRepository) Save(ctx context.Context, profile *device.Profile) error {
	model, err := r.mapper.ToModel(profile)
	if err != nil {
		return wrapDBError("failed to map device profile", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.DeviceModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(model).Error
	})
	if err != nil {
		return wrapDBError("failed to save device profile", err)
	}
	return nil
}

// Update mutates the existing profile row in place.
func (r *DeviceRepository) Update(ctx context.Context, profile *device.Profile) error {
	model, err := r.mapper.ToModel(profile)
	if err != nil {
		return wrapDBError("failed to map device profile", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", model.ID).
		Select("name", "role", "config", "updated_at").
		Updates(model)

	if result.Error != nil {
		return wrapDBError("failed to update device profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("device not registered")
	}
	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.DeviceModel{}).Error; err != nil {
		return wrapDBError("failed to delete device profile", err)
	}
	return nil
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slatepos/slate/internal/domain/kitchen"
	"github.com/slatepos/slate/internal/infrastructure/persistence/mappers"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

type KDSTicketRepository struct {
	db     *gorm.DB
	mapper mappers.KDSTicketMapper
}

func NewKDSTicketRepository(db *gorm.DB) *KDSTicketRepository {
	return &KDSTicketRepository{
		db:     db,
		mapper: mappers.NewKDSTicketMapper(),
	}
}

// Save upserts by ticket id so a replayed new_order message does not
// duplicate the work item.
func (r *KDSTicketRepository) Save(ctx context.Context, k *kitchen.KDSTicket) error {
	model := r.mapper.ToModel(k)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(model).Error; err != nil {
		return wrapDBError("failed to save kds ticket", err)
	}
	return nil
}

func (r *KDSTicketRepository) Update(ctx context.Context, k *kitchen.KDSTicket) error {
	model := r.mapper.ToModel(k)

	result := r.db.WithContext(ctx).
		Model(&models.KDSTicketModel{}).
		Where("id = ?", model.ID).
		Select("status", "updated_at").
		Updates(model)

	if result.Error != nil {
		return wrapDBError("failed to update kds ticket", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("kds ticket not found")
	}
	return nil
}

func (r *KDSTicketRepository) FindByID(ctx context.Context, id string) (*kitchen.KDSTicket, error) {
	var model models.KDSTicketModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, wrapDBError("failed to find kds ticket", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *KDSTicketRepository) ListActive(ctx context.Context, locationID string) ([]*kitchen.KDSTicket, error) {
	query := r.db.WithContext(ctx).Model(&models.KDSTicketModel{})
	if locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	var rows []models.KDSTicketModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list kds tickets", err)
	}
	return r.mapper.ToDomains(rows)
}

func (r *KDSTicketRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.KDSTicketModel{})
	if result.Error != nil {
		return wrapDBError("failed to delete kds ticket", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("kds ticket not found")
	}
	return nil
}

func (r *KDSTicketRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.KDSTicketModel{}).Error; err != nil {
		return wrapDBError("failed to clear kds tickets", err)
	}
	return nil
}

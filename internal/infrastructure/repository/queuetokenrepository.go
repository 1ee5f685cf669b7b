package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slatepos/slate/internal/domain/queue"
	"github.com/slatepos/slate/internal/infrastructure/persistence/mappers"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

type QueueTokenRepository struct {
	db     *gorm.DB
	mapper mappers.QueueTokenMapper
}

func NewQueueTokenRepository(db *gorm.DB) *QueueTokenRepository {
	return &QueueTokenRepository{
		db:     db,
		mapper: mappers.NewQueueTokenMapper(),
	}
}

// Save upserts by token id so a replayed order message does not duplicate
// the token.
func (r *QueueTokenRepository) Save(ctx context.Context, t *queue.Token) error {
	model := r.mapper.ToModel(t)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(model).Error; err != nil {
		return wrapDBError("failed to save queue token", err)
	}
	return nil
}

func (r *QueueTokenRepository) Update(ctx context.Context, t *queue.Token) error {
	model := r.mapper.ToModel(t)

	result := r.db.WithContext(ctx).
		Model(&models.QueueTokenModel{}).
		Where("id = ?", model.ID).
		Select("status", "updated_at").
		Updates(model)

	if result.Error != nil {
		return wrapDBError("failed to update queue token", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("queue token not found")
	}
	return nil
}

func (r *QueueTokenRepository) FindByID(ctx context.Context, id string) (*queue.Token, error) {
	var model models.QueueTokenModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, wrapDBError("failed to find queue token", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *QueueTokenRepository) ListByStatus(ctx context.Context, locationID string, status queue.Status) ([]*queue.Token, error) {
	query := r.db.WithContext(ctx).
		Model(&models.QueueTokenModel{}).
		Where("status = ?", status.String())
	if locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	var rows []models.QueueTokenModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list queue tokens", err)
	}
	return r.mapper.ToDomains(rows)
}

func (r *QueueTokenRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.QueueTokenModel{}).Error; err != nil {
		return wrapDBError("failed to clear queue tokens", err)
	}
	return nil
}

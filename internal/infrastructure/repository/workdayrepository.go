package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/domain/workday"
	"github.com/slatepos/slate/internal/infrastructure/persistence/mappers"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

type WorkdayRepository struct {
	db     *gorm.DB
	mapper mappers.WorkdayMapper
}

func NewWorkdayRepository(db *gorm.DB) *WorkdayRepository {
	return &WorkdayRepository{
		db:     db,
		mapper: mappers.NewWorkdayMapper(),
	}
}

// Save creates the shift row. The single-active-shift invariant is checked
// inside the same transaction as the insert.
func (r *WorkdayRepository) Save(ctx context.Context, w *workday.Workday) error {
	model := r.mapper.ToModel(w)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if w.IsActive() {
			var active int64
			if err := tx.Model(&models.WorkdayModel{}).
				Where("location_id = ? AND end_time IS NULL", w.LocationID()).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return gorm.ErrDuplicatedKey
			}
		}
		return tx.Create(model).Error
	})
	if err != nil {
		return wrapDBError("failed to save workday", err)
	}
	return nil
}

func (r *WorkdayRepository) Update(ctx context.Context, w *workday.Workday) error {
	model := r.mapper.ToModel(w)

	result := r.db.WithContext(ctx).
		Model(&models.WorkdayModel{}).
		Where("local_id = ?", model.LocalID).
		Select("workday_id", "end_user_id", "end_time", "total_sales",
			"total_tickets", "auto_closed", "sync_status", "sync_error",
			"sync_attempts", "updated_at", "synced_at").
		Updates(model)

	if result.Error != nil {
		return wrapDBError("failed to update workday", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("workday not found")
	}
	return nil
}

func (r *WorkdayRepository) FindByLocalID(ctx context.Context, localID string) (*workday.Workday, error) {
	var model models.WorkdayModel
	if err := r.db.WithContext(ctx).
		Where("local_id = ?", localID).
		First(&model).Error; err != nil {
		return nil, wrapDBError("failed to find workday", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *WorkdayRepository) FindActive(ctx context.Context, locationID string) (*workday.Workday, error) {
	var model models.WorkdayModel
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND end_time IS NULL", locationID).
		First(&model).Error; err != nil {
		return nil, wrapDBError("failed to find active workday", err)
	}
	return r.mapper.ToDomain(&model)
}

// ListPending returns workdays awaiting submission, oldest first.
func (r *WorkdayRepository) ListPending(ctx context.Context) ([]*workday.Workday, error) {
	var rows []models.WorkdayModel
	if err := r.db.WithContext(ctx).
		Where("sync_status IN ?", []string{
			shared.SyncPending.String(),
			shared.SyncFailed.String(),
		}).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list pending workdays", err)
	}
	return r.mapper.ToDomains(rows)
}

// Stats counts workdays by sync status.
func (r *WorkdayRepository) Stats(ctx context.Context) (shared.SyncStats, error) {
	var counts []struct {
		SyncStatus string
		Count      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.WorkdayModel{}).
		Select("sync_status, count(*) as count").
		Group("sync_status").
		Find(&counts).Error; err != nil {
		return shared.SyncStats{}, wrapDBError("failed to count workdays", err)
	}

	var stats shared.SyncStats
	for _, c := range counts {
		switch shared.SyncStatus(c.SyncStatus) {
		case shared.SyncPending, shared.SyncSyncing:
			stats.Pending += c.Count
		case shared.SyncFailed:
			stats.Failed += c.Count
		case shared.SyncSynced:
			stats.Synced += c.Count
		}
	}
	return stats, nil
}

func (r *WorkdayRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.WorkdayModel{}).Error; err != nil {
		return wrapDBError("failed to clear workdays", err)
	}
	return nil
}

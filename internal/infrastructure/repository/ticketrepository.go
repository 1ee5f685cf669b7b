package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/domain/ticket"
	"github.com/slatepos/slate/internal/infrastructure/persistence/mappers"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapDBError("failed to save ticket", err)
	}
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)

	result := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Select("ticket_data", "sync_status", "sync_error", "sync_attempts",
			"order_status", "total_amount", "updated_at", "synced_at").
		Updates(model)

	if result.Error != nil {
		return wrapDBError("failed to update ticket", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("ticket not found")
	}
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, wrapDBError("failed to find ticket", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, locationID string) ([]*ticket.Ticket, error) {
	query := r.db.WithContext(ctx).Model(&models.TicketModel{})
	if locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	var rows []models.TicketModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list tickets", err)
	}
	return r.mapper.ToDomains(rows)
}

// ListPending returns tickets awaiting submission, oldest first, so the
// push preserves creation order.
func (r *TicketRepository) ListPending(ctx context.Context) ([]*ticket.Ticket, error) {
	var rows []models.TicketModel
	if err := r.db.WithContext(ctx).
		Where("sync_status IN ?", []string{
			shared.SyncPending.String(),
			shared.SyncFailed.String(),
		}).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list pending tickets", err)
	}
	return r.mapper.ToDomains(rows)
}

func (r *TicketRepository) ListByStatus(ctx context.Context, status shared.SyncStatus) ([]*ticket.Ticket, error) {
	var rows []models.TicketModel
	if err := r.db.WithContext(ctx).
		Where("sync_status = ?", status.String()).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list tickets by status", err)
	}
	return r.mapper.ToDomains(rows)
}

func (r *TicketRepository) Stats(ctx context.Context) (shared.SyncStats, error) {
	var counts []struct {
		SyncStatus string
		Count      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Select("sync_status, count(*) as count").
		Group("sync_status").
		Find(&counts).Error; err != nil {
		return shared.SyncStats{}, wrapDBError("failed to count tickets", err)
	}

	var stats shared.SyncStats
	for _, c := range counts {
		switch shared.SyncStatus(c.SyncStatus) {
		case shared.SyncPending, shared.SyncSyncing:
			// A row caught mid-push still blocks logout.
			stats.Pending += c.Count
		case shared.SyncFailed:
			stats.Failed += c.Count
		case shared.SyncSynced:
			stats.Synced += c.Count
		}
	}
	return stats, nil
}

// queueAllocRetries bounds how often an allocation retakes the max after
// losing an insert race.
const queueAllocRetries = 10

// CreateWithQueueNumber allocates the next queue number for the location and
// business date and inserts the ticket returned by build in the same write
// transaction. The unique index on (location_id, business_date, queue_number)
// backs the allocation: when another writer takes the number between the max
// read and the insert, the constraint fires and the allocation retries
// against the fresh max.
func (r *TicketRepository) CreateWithQueueNumber(ctx context.Context, locationID, businessDate string, build func(queueNumber int) (*ticket.Ticket, error)) (*ticket.Ticket, error) {
	for attempt := 0; attempt < queueAllocRetries; attempt++ {
		var created *ticket.Ticket
		var buildErr error

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			next, err := nextQueueNumber(tx, locationID, businessDate)
			if err != nil {
				return err
			}
			t, err := build(next)
			if err != nil {
				buildErr = err
				return err
			}
			if err := tx.Create(r.mapper.ToModel(t)).Error; err != nil {
				return err
			}
			created = t
			return nil
		})
		if err == nil {
			return created, nil
		}
		if buildErr != nil {
			return nil, buildErr
		}
		if isConstraintError(err) {
			continue
		}
		return nil, wrapDBError("failed to create ticket", err)
	}
	return nil, apperrors.NewPersistenceError(apperrors.PersistenceConstraint,
		"queue number allocation kept conflicting", nil)
}

// NextQueueNumber peeks at max(queue_number)+1 for the location and business
// date. Ticket creation must go through CreateWithQueueNumber, which holds
// the allocation and the insert in one transaction.
func (r *TicketRepository) NextQueueNumber(ctx context.Context, locationID, businessDate string) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := nextQueueNumber(tx, locationID, businessDate)
		if err != nil {
			return err
		}
		next = n
		return nil
	})
	if err != nil {
		return 0, wrapDBError("failed to allocate queue number", err)
	}
	return next, nil
}

func nextQueueNumber(tx *gorm.DB, locationID, businessDate string) (int, error) {
	var max *int
	if err := tx.Model(&models.TicketModel{}).
		Where("location_id = ? AND business_date = ?", locationID, businessDate).
		Select("MAX(queue_number)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *TicketRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.TicketModel{}).Error; err != nil {
		return wrapDBError("failed to clear tickets", err)
	}
	return nil
}

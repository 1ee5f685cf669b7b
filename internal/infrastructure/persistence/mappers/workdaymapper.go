package mappers

import (
	"fmt"

	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/domain/workday"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

// WorkdayMapper handles the conversion between domain workdays and persistence models.
type WorkdayMapper interface {
	ToModel(w *workday.Workday) *models.WorkdayModel
	ToDomain(model *models.WorkdayModel) (*workday.Workday, error)
	ToDomains(rows []models.WorkdayModel) ([]*workday.Workday, error)
}

type workdayMapper struct{}

func NewWorkdayMapper() WorkdayMapper {
	return &workdayMapper{}
}

func (m *workdayMapper) ToModel(w *workday.Workday) *models.WorkdayModel {
	return &models.WorkdayModel{
		LocalID:      w.LocalID(),
		WorkdayID:    w.WorkdayID(),
		LocationID:   w.LocationID(),
		StartUserID:  w.StartUserID(),
		StartTime:    timeToMilli(w.StartTime()),
		EndUserID:    w.EndUserID(),
		EndTime:      timePtrToMilliPtr(w.EndTime()),
		TotalSales:   w.TotalSales(),
		TotalTickets: w.TotalTickets(),
		AutoClosed:   w.AutoClosed(),
		SyncStatus:   w.SyncStatus().String(),
		SyncError:    w.SyncError(),
		SyncAttempts: w.SyncAttempts(),
		CreatedAt:    timeToMilli(w.CreatedAt()),
		UpdatedAt:    timeToMilli(w.UpdatedAt()),
		SyncedAt:     timePtrToMilliPtr(w.SyncedAt()),
	}
}

func (m *workdayMapper) ToDomain(model *models.WorkdayModel) (*workday.Workday, error) {
	syncStatus, err := shared.ParseSyncStatus(model.SyncStatus)
	if err != nil {
		return nil, fmt.Errorf("workday %s: %w", model.LocalID, err)
	}

	return workday.ReconstructWorkday(
		model.LocalID,
		model.WorkdayID,
		model.LocationID,
		model.StartUserID,
		milliToTime(model.StartTime),
		model.EndUserID,
		milliPtrToTimePtr(model.EndTime),
		model.TotalSales,
		model.TotalTickets,
		model.AutoClosed,
		syncStatus,
		model.SyncError,
		model.SyncAttempts,
		milliToTime(model.CreatedAt),
		milliToTime(model.UpdatedAt),
		milliPtrToTimePtr(model.SyncedAt),
	)
}

func (m *workdayMapper) ToDomains(rows []models.WorkdayModel) ([]*workday.Workday, error) {
	workdays := make([]*workday.Workday, len(rows))
	for i := range rows {
		w, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		workdays[i] = w
	}
	return workdays, nil
}

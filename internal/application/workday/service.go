// Package workday implements shift management: opening and closing the
// single active workday per location.
package workday

import (
	"context"
	"fmt"
	"time"

	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/domain/ticket"
	workdayDomain "github.com/slatepos/slate/internal/domain/workday"
	apperrors "github.com/slatepos/slate/internal/shared/errors"
	"github.com/slatepos/slate/internal/shared/logger"
)

// WorkdayView is the external snapshot of a shift.
type WorkdayView struct {
	LocalID      string  `json:"local_id"`
	WorkdayID    string  `json:"workday_id,omitempty"`
	LocationID   string  `json:"location_id"`
	StartUserID  string  `json:"start_user_id"`
	StartTime    int64   `json:"start_time"`
	EndUserID    string  `json:"end_user_id,omitempty"`
	EndTime      *int64  `json:"end_time,omitempty"`
	TotalSales   float64 `json:"total_sales"`
	TotalTickets int     `json:"total_tickets"`
	AutoClosed   bool    `json:"auto_closed"`
	SyncStatus   string  `json:"sync_status"`
}

// Service manages shifts.
type Service struct {
	workdays workdayDomain.Repository
	tickets  ticket.Repository
	logger   logger.Interface
}

// NewService creates the workday service.
func NewService(workdays workdayDomain.Repository, tickets ticket.Repository, log logger.Interface) *Service {
	return &Service{
		workdays: workdays,
		tickets:  tickets,
		logger:   log.Named("workday"),
	}
}

// GetActive returns the open shift for a location, or a not-found error.
func (s *Service) GetActive(ctx context.Context, locationID string) (*WorkdayView, error) {
	w, err := s.workdays.FindActive(ctx, locationID)
	if err != nil {
		return nil, err
	}
	v := toView(w)
	return &v, nil
}

// OpenShift opens a new workday. A shift left open from a previous calendar
// day is closed automatically first with auto_closed set; a shift opened
// today blocks the new open.
func (s *Service) OpenShift(ctx context.Context, locationID, userID string) (*WorkdayView, error) {
	if locationID == "" || userID == "" {
		return nil, apperrors.NewValidationError("location id and user id are required", nil)
	}

	active, err := s.workdays.FindActive(ctx, locationID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if active != nil {
		today := time.Now().Format("2006-01-02")
		if active.StartTime().Format("2006-01-02") == today {
			return nil, apperrors.NewValidationError("a shift is already open for this location", nil)
		}
		s.logger.Warnw("auto-closing stale shift",
			"local_id", active.LocalID(),
			"started", active.StartTime(),
		)
		if err := active.Close(userID, time.Now(), active.TotalSales(), active.TotalTickets(), true); err != nil {
			return nil, err
		}
		if err := s.workdays.Update(ctx, active); err != nil {
			return nil, err
		}
	}

	w, err := workdayDomain.NewWorkday(locationID, userID, time.Now())
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.workdays.Save(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Infow("shift opened", "local_id", w.LocalID(), "location_id", locationID)
	v := toView(w)
	return &v, nil
}

// CloseShift ends the open shift with totals computed from local tickets.
// The close re-queues the row for sync even when the open already synced.
// While other local records are still unsynced the close is refused unless
// force is set.
func (s *Service) CloseShift(ctx context.Context, locationID, userID string, force bool) (*WorkdayView, error) {
	w, err := s.workdays.FindActive(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if !force {
		unsynced, err := s.unsyncedBesides(ctx, w)
		if err != nil {
			return nil, err
		}
		if unsynced > 0 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("%d records not yet synced; close blocked without force", unsynced), nil)
		}
	}

	totalSales, totalTickets, err := s.shiftTotals(ctx, locationID, w.StartTime())
	if err != nil {
		return nil, err
	}

	if err := w.Close(userID, time.Now(), totalSales, totalTickets, false); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.workdays.Update(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Infow("shift closed",
		"local_id", w.LocalID(),
		"total_sales", totalSales,
		"total_tickets", totalTickets,
		"sync_status", w.SyncStatus(),
	)
	v := toView(w)
	return &v, nil
}

// unsyncedBesides counts unsynced local records, leaving out the open
// shift's own row. Closing is how that row re-queues for sync, so it must
// not block itself when the register is offline.
func (s *Service) unsyncedBesides(ctx context.Context, w *workdayDomain.Workday) (int64, error) {
	tickets, err := s.tickets.Stats(ctx)
	if err != nil {
		return 0, err
	}
	workdays, err := s.workdays.Stats(ctx)
	if err != nil {
		return 0, err
	}

	unsynced := tickets.Unsynced() + workdays.Unsynced()
	if w.SyncStatus() != shared.SyncSynced {
		unsynced--
	}
	return unsynced, nil
}

func (s *Service) shiftTotals(ctx context.Context, locationID string, since time.Time) (float64, int, error) {
	rows, err := s.tickets.List(ctx, locationID)
	if err != nil {
		return 0, 0, err
	}
	var sales float64
	var count int
	for _, t := range rows {
		if t.CreatedAt().Before(since) {
			continue
		}
		sales += t.TotalAmount()
		count++
	}
	return sales, count, nil
}

func toView(w *workdayDomain.Workday) WorkdayView {
	v := WorkdayView{
		LocalID:      w.LocalID(),
		WorkdayID:    w.WorkdayID(),
		LocationID:   w.LocationID(),
		StartUserID:  w.StartUserID(),
		StartTime:    w.StartTime().UnixMilli(),
		EndUserID:    w.EndUserID(),
		TotalSales:   w.TotalSales(),
		TotalTickets: w.TotalTickets(),
		AutoClosed:   w.AutoClosed(),
		SyncStatus:   string(w.SyncStatus()),
	}
	if w.EndTime() != nil {
		ms := w.EndTime().UnixMilli()
		v.EndTime = &ms
	}
	return v
}

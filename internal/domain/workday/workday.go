// Package workday holds the shift-period aggregate. At most one workday per
// location is active (has no end time) at any moment; closing a shift
// updates the existing row in place rather than creating a new one.
package workday

import (
	"fmt"
	"time"

	"github.com/slatepos/slate/internal/domain/shared"
	"github.com/slatepos/slate/internal/shared/id"
)

type Workday struct {
	localID      string
	workdayID    string // server-assigned once the remote create succeeds
	locationID   string
	startUserID  string
	startTime    time.Time
	endUserID    string
	endTime      *time.Time
	totalSales   float64
	totalTickets int
	autoClosed   bool
	syncStatus   shared.SyncStatus
	syncError    string
	syncAttempts int
	createdAt    time.Time
	updatedAt    time.Time
	syncedAt     *time.Time
}

// NewWorkday opens a shift for a location. The row is created PENDING and
// pushed to the backend by the sync orchestrator.
func NewWorkday(locationID, startUserID string, startTime time.Time) (*Workday, error) {
	if locationID == "" {
		return nil, fmt.Errorf("location id is required")
	}
	if startUserID == "" {
		return nil, fmt.Errorf("start user id is required")
	}
	if startTime.IsZero() {
		startTime = time.Now()
	}

	now := time.Now()
	return &Workday{
		localID:     id.MustGenerateWithPrefix(id.PrefixWorkday, id.DefaultLength),
		locationID:  locationID,
		startUserID: startUserID,
		startTime:   startTime,
		syncStatus:  shared.SyncPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructWorkday(
	localID string,
	workdayID string,
	locationID string,
	startUserID string,
	startTime time.Time,
	endUserID string,
	endTime *time.Time,
	totalSales float64,
	totalTickets int,
	autoClosed bool,
	syncStatus shared.SyncStatus,
	syncError string,
	syncAttempts int,
	createdAt, updatedAt time.Time,
	syncedAt *time.Time,
) (*Workday, error) {
	if localID == "" {
		return nil, fmt.Errorf("workday local id is required")
	}
	if locationID == "" {
		return nil, fmt.Errorf("location id is required")
	}
	return &Workday{
		localID:      localID,
		workdayID:    workdayID,
		locationID:   locationID,
		startUserID:  startUserID,
		startTime:    startTime,
		endUserID:    endUserID,
		endTime:      endTime,
		totalSales:   totalSales,
		totalTickets: totalTickets,
		autoClosed:   autoClosed,
		syncStatus:   syncStatus,
		syncError:    syncError,
		syncAttempts: syncAttempts,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		syncedAt:     syncedAt,
	}, nil
}

func (w *Workday) LocalID() string               { return w.localID }
func (w *Workday) WorkdayID() string             { return w.workdayID }
func (w *Workday) LocationID() string            { return w.locationID }
func (w *Workday) StartUserID() string           { return w.startUserID }
func (w *Workday) StartTime() time.Time          { return w.startTime }
func (w *Workday) EndUserID() string             { return w.endUserID }
func (w *Workday) EndTime() *time.Time           { return w.endTime }
func (w *Workday) TotalSales() float64           { return w.totalSales }
func (w *Workday) TotalTickets() int             { return w.totalTickets }
func (w *Workday) AutoClosed() bool              { return w.autoClosed }
func (w *Workday) SyncStatus() shared.SyncStatus { return w.syncStatus }
func (w *Workday) SyncError() string             { return w.syncError }
func (w *Workday) SyncAttempts() int             { return w.syncAttempts }
func (w *Workday) CreatedAt() time.Time          { return w.createdAt }
func (w *Workday) UpdatedAt() time.Time          { return w.updatedAt }
func (w *Workday) SyncedAt() *time.Time          { return w.syncedAt }

// IsActive reports whether the shift is still open.
func (w *Workday) IsActive() bool {
	return w.endTime == nil
}

// Close ends the shift in place. autoClosed marks closes forced by the
// system (stale shift detected at next open) rather than by a user.
func (w *Workday) Close(endUserID string, endTime time.Time, totalSales float64, totalTickets int, autoClosed bool) error {
	if !w.IsActive() {
		return fmt.Errorf("workday already closed")
	}
	if endTime.IsZero() {
		endTime = time.Now()
	}
	if endTime.Before(w.startTime) {
		return fmt.Errorf("end time precedes start time")
	}
	w.endUserID = endUserID
	w.endTime = &endTime
	w.totalSales = totalSales
	w.totalTickets = totalTickets
	w.autoClosed = autoClosed
	// The close must reach the backend even if the open already synced.
	if w.syncStatus == shared.SyncSynced {
		w.syncStatus = shared.SyncPending
		w.syncedAt = nil
	}
	w.updatedAt = time.Now()
	return nil
}

// AssignWorkdayID records the server-assigned id after a successful create.
func (w *Workday) AssignWorkdayID(workdayID string) error {
	if workdayID == "" {
		return fmt.Errorf("workday id is required")
	}
	if w.workdayID != "" && w.workdayID != workdayID {
		return fmt.Errorf("workday id already assigned")
	}
	w.workdayID = workdayID
	w.updatedAt = time.Now()
	return nil
}

// BeginSync moves PENDING or FAILED to SYNCING.
func (w *Workday) BeginSync() error {
	if !w.syncStatus.CanTransitionTo(shared.SyncSyncing) {
		return fmt.Errorf("cannot begin sync from %s", w.syncStatus)
	}
	w.syncStatus = shared.SyncSyncing
	w.updatedAt = time.Now()
	return nil
}

// CompleteSync moves SYNCING to SYNCED.
func (w *Workday) CompleteSync() error {
	if !w.syncStatus.CanTransitionTo(shared.SyncSynced) {
		return fmt.Errorf("cannot complete sync from %s", w.syncStatus)
	}
	now := time.Now()
	w.syncStatus = shared.SyncSynced
	w.syncError = ""
	w.syncedAt = &now
	w.updatedAt = now
	return nil
}

// FailSync moves SYNCING to FAILED and counts the attempt.
func (w *Workday) FailSync(reason string) error {
	if !w.syncStatus.CanTransitionTo(shared.SyncFailed) {
		return fmt.Errorf("cannot fail sync from %s", w.syncStatus)
	}
	w.syncStatus = shared.SyncFailed
	w.syncError = reason
	w.syncAttempts++
	w.updatedAt = time.Now()
	return nil
}

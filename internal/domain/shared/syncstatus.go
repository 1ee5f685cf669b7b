// Package shared provides reusable domain logic shared across aggregates.
package shared

import "fmt"

// SyncStatus is the backend-submission lifecycle tag carried by locally
// created records. Tickets and workdays share the same envelope.
type SyncStatus string

const (
	SyncPending SyncStatus = "PENDING"
	SyncSyncing SyncStatus = "SYNCING"
	SyncSynced  SyncStatus = "SYNCED"
	SyncFailed  SyncStatus = "FAILED"
)

// syncTransitions is the closed transition table. SYNCED is terminal.
var syncTransitions = map[SyncStatus][]SyncStatus{
	SyncPending: {SyncSyncing},
	SyncFailed:  {SyncSyncing},
	SyncSyncing: {SyncSynced, SyncFailed},
	SyncSynced:  {},
}

// ParseSyncStatus converts a stored string into a SyncStatus.
func ParseSyncStatus(s string) (SyncStatus, error) {
	switch SyncStatus(s) {
	case SyncPending, SyncSyncing, SyncSynced, SyncFailed:
		return SyncStatus(s), nil
	default:
		return "", fmt.Errorf("invalid sync status %q", s)
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s SyncStatus) CanTransitionTo(next SyncStatus) bool {
	for _, allowed := range syncTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s SyncStatus) IsTerminal() bool {
	return s == SyncSynced
}

// NeedsSync reports whether the record still awaits backend confirmation.
func (s SyncStatus) NeedsSync() bool {
	return s == SyncPending || s == SyncFailed
}

func (s SyncStatus) String() string {
	return string(s)
}

// SyncStats is the aggregate used to gate logout and shift close.
type SyncStats struct {
	Pending int64
	Failed  int64
	Synced  int64
}

// Unsynced returns the count of records still blocking logout.
func (s SyncStats) Unsynced() int64 {
	return s.Pending + s.Failed
}

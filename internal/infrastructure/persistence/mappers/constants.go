// Package mappers converts between domain entities and persistence models.
package mappers

import "time"

func milliToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func timeToMilli(t time.Time) int64 {
	return t.UnixMilli()
}

func milliPtrToTimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

func timePtrToMilliPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

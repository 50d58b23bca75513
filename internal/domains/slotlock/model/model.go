package model

import (
	"time"

	"arena/shared/model"
)

const (
	TableName  = "slot_locks"
	EntityName = "slot_lock"

	FieldID         = "id"
	FieldTimeSlotID = "time_slot_id"
	FieldLockDate   = "lock_date"
	FieldIsLocked   = "is_locked"
	FieldReason     = "reason"
)

// Conflict targets matching the two partial unique indexes on slot_locks.
const (
	ConflictStanding = "(time_slot_id) WHERE lock_date IS NULL"
	ConflictDated    = "(time_slot_id, lock_date) WHERE lock_date IS NOT NULL"
)

// SlotLock is the latest state for one (time slot, date) key. A nil LockDate is the standing
// entry for every date; a dated row with IsLocked false is an explicit unlock override.
type SlotLock struct {
	ID         string     `db:"id"`
	TimeSlotID string     `db:"time_slot_id"`
	LockDate   *time.Time `db:"lock_date"`
	IsLocked   bool       `db:"is_locked"`
	Reason     string     `db:"reason"`
	model.Metadata
}

func (l SlotLock) IsStanding() bool {
	return l.LockDate == nil
}

func (l SlotLock) On(date time.Time) bool {
	if l.LockDate == nil {
		return false
	}

	y1, m1, d1 := l.LockDate.Date()
	y2, m2, d2 := date.Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}

// Resolve applies the lock precedence for one slot on one date: a row for that date wins,
// otherwise the standing row, otherwise the slot is unlocked. locks may hold rows for other
// slots and dates.
func Resolve(locks []SlotLock, timeSlotID string, date time.Time) (bool, string) {
	var standing *SlotLock

	for i := range locks {
		lock := locks[i]
		if lock.TimeSlotID != timeSlotID {
			continue
		}

		if lock.On(date) {
			return lock.IsLocked, reasonOf(lock)
		}

		if lock.IsStanding() && standing == nil {
			standing = &locks[i]
		}
	}

	if standing != nil {
		return standing.IsLocked, reasonOf(*standing)
	}

	return false, ""
}

func reasonOf(lock SlotLock) string {
	if !lock.IsLocked {
		return ""
	}

	return lock.Reason
}

package dto

import (
	"time"

	"arena/internal/domains/slotlock/model"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	gModel "arena/shared/model"
	"arena/shared/timezone"

	"github.com/google/uuid"
)

// LockRequest locks a slot on one date, or on every date when LockDate is empty.
type LockRequest struct {
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid"`
	LockDate   string `json:"lock_date"    validate:"omitempty,datetime=2006-01-02"`
	Reason     string `json:"reason"       validate:"omitempty,max=255"`
}

type UnlockRequest struct {
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid"`
	LockDate   string `json:"lock_date"    validate:"omitempty,datetime=2006-01-02"`
}

// ParseDate returns nil for a standing request.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	date, err := timezone.ParseDate(value)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &date, nil
}

func NewSlotLock(timeSlotID string, date *time.Time, locked bool, reason, user string) model.SlotLock {
	return model.SlotLock{
		ID:         uuid.NewString(),
		TimeSlotID: timeSlotID,
		LockDate:   date,
		IsLocked:   locked,
		Reason:     reason,
		Metadata:   gModel.NewMetadata(timezone.Now(), user),
	}
}

type SlotLockResponse struct {
	ID         string  `json:"id"`
	TimeSlotID string  `json:"time_slot_id"`
	LockDate   *string `json:"lock_date"`
	IsLocked   bool    `json:"is_locked"`
	Reason     string  `json:"reason"`
	gDto.Metadata
}

func (r *SlotLockResponse) FromModel(model model.SlotLock) {
	r.ID = model.ID
	r.TimeSlotID = model.TimeSlotID
	r.IsLocked = model.IsLocked
	r.Reason = model.Reason
	r.LockDate = nil

	if model.LockDate != nil {
		date := model.LockDate.Format(constant.DateOnlyFormat)
		r.LockDate = &date
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetSlotLocksResponse struct {
	SlotLocks []SlotLockResponse `json:"slot_locks"`
}

func (r *GetSlotLocksResponse) FromModels(models []model.SlotLock) {
	r.SlotLocks = make([]SlotLockResponse, len(models))
	for i, mod := range models {
		r.SlotLocks[i].FromModel(mod)
	}
}

type LockStatusResponse struct {
	TimeSlotID string `json:"time_slot_id"`
	Date       string `json:"date"`
	Locked     bool   `json:"locked"`
	Reason     string `json:"reason,omitempty"`
}

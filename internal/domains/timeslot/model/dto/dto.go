package dto

import (
	"arena/internal/domains/timeslot/model"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	gModel "arena/shared/model"
	"arena/shared/timezone"

	"github.com/google/uuid"
)

type UpsertTimeSlotRequest struct {
	FieldID      *string `json:"field_id"      validate:"omitempty,uuid"`
	StartTime    string  `json:"start_time"    validate:"required,hhmm"`
	EndTime      string  `json:"end_time"      validate:"required,hhmm"`
	WeekdayPrice int64   `json:"weekday_price" validate:"gte=0"`
	WeekendPrice int64   `json:"weekend_price" validate:"gte=0"`
	IsActive     *bool   `json:"is_active"`
}

func (r *UpsertTimeSlotRequest) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

func (r *UpsertTimeSlotRequest) ToModel(user string) model.TimeSlot {
	return model.TimeSlot{
		ID:           uuid.NewString(),
		FieldID:      r.FieldID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		WeekdayPrice: r.WeekdayPrice,
		WeekendPrice: r.WeekendPrice,
		IsActive:     r.Active(),
		Metadata:     gModel.NewMetadata(timezone.Now(), user),
	}
}

// ToUpdate writes every column, including a nil field id that turns a definition global.
func (r *UpsertTimeSlotRequest) ToUpdate(user string) map[string]any {
	return map[string]any{
		model.FieldFieldID:       r.FieldID,
		model.FieldStartTime:     r.StartTime,
		model.FieldEndTime:       r.EndTime,
		model.FieldWeekdayPrice:  r.WeekdayPrice,
		model.FieldWeekendPrice:  r.WeekendPrice,
		model.FieldIsActive:      r.Active(),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
}

type TimeSlotResponse struct {
	ID           string  `json:"id"`
	FieldID      *string `json:"field_id"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	WeekdayPrice int64   `json:"weekday_price"`
	WeekendPrice int64   `json:"weekend_price"`
	IsActive     bool    `json:"is_active"`
	gDto.Metadata
}

func (r *TimeSlotResponse) FromModel(model model.TimeSlot) {
	r.ID = model.ID
	r.FieldID = model.FieldID
	r.StartTime = model.Start()
	r.EndTime = model.End()
	r.WeekdayPrice = model.WeekdayPrice
	r.WeekendPrice = model.WeekendPrice
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetTimeSlotsResponse struct {
	TimeSlots []TimeSlotResponse `json:"time_slots"`
}

func (r *GetTimeSlotsResponse) FromModels(models []model.TimeSlot) {
	r.TimeSlots = make([]TimeSlotResponse, len(models))
	for i, mod := range models {
		r.TimeSlots[i].FromModel(mod)
	}
}

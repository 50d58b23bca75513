package dto

import (
	"arena/internal/domains/availability/model"
	"arena/shared/constant"
	"arena/shared/timezone"
)

type SlotInstanceResponse struct {
	TimeSlotID string `json:"time_slot_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Price      int64  `json:"price"`
	Available  bool   `json:"available"`
	Booked     bool   `json:"booked"`
	LockReason string `json:"lock_reason,omitempty"`
}

func (r *SlotInstanceResponse) FromModel(model model.SlotInstance) {
	r.TimeSlotID = model.TimeSlotID
	r.Start = model.Start
	r.End = model.End
	r.Price = model.Price
	r.Available = model.Available
	r.Booked = model.Booked
	r.LockReason = model.LockReason
}

type GetAvailableSlotsResponse struct {
	FieldID string                 `json:"field_id"`
	Date    string                 `json:"date"`
	Weekend bool                   `json:"weekend"`
	Slots   []SlotInstanceResponse `json:"slots"`
}

func (r *GetAvailableSlotsResponse) FromModels(in model.Input, instances []model.SlotInstance) {
	r.FieldID = in.Field.ID
	r.Date = in.Date.Format(constant.DateOnlyFormat)
	r.Weekend = timezone.IsWeekend(in.Date)

	r.Slots = make([]SlotInstanceResponse, len(instances))
	for i, instance := range instances {
		r.Slots[i].FromModel(instance)
	}
}

package model

import (
	"cmp"
	"slices"
	"time"

	bookingModel "arena/internal/domains/booking/model"
	fieldModel "arena/internal/domains/field/model"
	slotLockModel "arena/internal/domains/slotlock/model"
	timeSlotModel "arena/internal/domains/timeslot/model"
)

const ReasonMaintenance = "field under maintenance"

// SlotInstance is one time slot definition placed on a calendar date.
type SlotInstance struct {
	TimeSlotID string
	Start      string
	End        string
	Price      int64
	Available  bool
	Booked     bool
	LockReason string
}

// Input is everything the resolver reads for one field and date.
type Input struct {
	Field     fieldModel.Field
	Date      time.Time
	TimeSlots []timeSlotModel.TimeSlot
	Bookings  []bookingModel.Booking
	Locks     []slotLockModel.SlotLock
}

// Resolve builds the slot instances of in.Field on in.Date. Definitions are taken in
// (start, end, id) order and definitions sharing a (start, end) pair collapse into the first
// one: its id and price are kept, and the collapsed slot is unavailable when any of the
// duplicates is booked or locked.
func Resolve(in Input) []SlotInstance {
	slots := slices.Clone(in.TimeSlots)
	slices.SortStableFunc(slots, func(a, b timeSlotModel.TimeSlot) int {
		return cmp.Or(
			cmp.Compare(a.Start(), b.Start()),
			cmp.Compare(a.End(), b.End()),
			cmp.Compare(a.ID, b.ID),
		)
	})

	booked := make(map[string]bool, len(in.Bookings))
	for _, booking := range in.Bookings {
		if booking.Status != bookingModel.StatusCancelled && booking.DeletedAt == nil {
			booked[booking.TimeSlotID] = true
		}
	}

	instances := make([]SlotInstance, 0, len(slots))
	index := make(map[[2]string]int, len(slots))

	for _, slot := range slots {
		if !slot.IsActive || !slot.AppliesTo(in.Field.ID) {
			continue
		}

		locked, reason := slotLockModel.Resolve(in.Locks, slot.ID, in.Date)
		if in.Field.UnderMaintenance() {
			locked, reason = true, ReasonMaintenance
		}

		instance := SlotInstance{
			TimeSlotID: slot.ID,
			Start:      slot.Start(),
			End:        slot.End(),
			Price:      slot.PriceOn(in.Date),
			Booked:     booked[slot.ID],
			LockReason: reason,
		}
		instance.Available = !instance.Booked && !locked

		key := [2]string{instance.Start, instance.End}
		if i, ok := index[key]; ok {
			instances[i].merge(instance)

			continue
		}

		index[key] = len(instances)
		instances = append(instances, instance)
	}

	return instances
}

func (s *SlotInstance) merge(duplicate SlotInstance) {
	s.Available = s.Available && duplicate.Available
	s.Booked = s.Booked || duplicate.Booked

	if s.LockReason == "" {
		s.LockReason = duplicate.LockReason
	}
}

// Find returns the instance that owns timeSlotID, including one collapsed into another.
func Find(instances []SlotInstance, slots []timeSlotModel.TimeSlot, timeSlotID string) (SlotInstance, bool) {
	for _, slot := range slots {
		if slot.ID != timeSlotID {
			continue
		}

		for _, instance := range instances {
			if instance.Start == slot.Start() && instance.End == slot.End() {
				return instance, true
			}
		}
	}

	return SlotInstance{}, false
}

package model

import (
	"fmt"
	"time"

	"arena/shared/constant"
	"arena/shared/model"
	"arena/shared/timezone"
)

const (
	TableName  = "time_slots"
	EntityName = "time_slot"

	FieldID           = "id"
	FieldFieldID      = "field_id"
	FieldStartTime    = "start_time"
	FieldEndTime      = "end_time"
	FieldWeekdayPrice = "weekday_price"
	FieldWeekendPrice = "weekend_price"
	FieldIsActive     = "is_active"
)

// TimeSlot is a recurring daily window. A nil FieldID makes it global: it belongs to the
// scope of every field.
type TimeSlot struct {
	ID           string  `db:"id"`
	FieldID      *string `db:"field_id"`
	StartTime    string  `db:"start_time"`
	EndTime      string  `db:"end_time"`
	WeekdayPrice int64   `db:"weekday_price"`
	WeekendPrice int64   `db:"weekend_price"`
	IsActive     bool    `db:"is_active"`
	model.Metadata
}

// ParseClock accepts "HH:MM" as well as the "HH:MM:SS" form postgres returns for TIME columns.
func ParseClock(value string) (time.Time, error) {
	if clock, err := time.Parse(time.TimeOnly, value); err == nil {
		return clock, nil
	}

	clock, err := time.Parse(constant.TimeOfDayFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", value, err)
	}

	return clock, nil
}

// Minutes converts a time of day into minutes since midnight.
func Minutes(value string) (int, error) {
	clock, err := ParseClock(value)
	if err != nil {
		return 0, err
	}

	return clock.Hour()*constant.MinutesPerHour + clock.Minute(), nil
}

// FormatClock normalizes a stored time of day to "HH:MM".
func FormatClock(value string) string {
	clock, err := ParseClock(value)
	if err != nil {
		return value
	}

	return clock.Format(constant.TimeOfDayFormat)
}

func (t TimeSlot) Start() string {
	return FormatClock(t.StartTime)
}

func (t TimeSlot) End() string {
	return FormatClock(t.EndTime)
}

func (t TimeSlot) IsGlobal() bool {
	return t.FieldID == nil
}

// AppliesTo reports whether the definition is in the scope of fieldID.
func (t TimeSlot) AppliesTo(fieldID string) bool {
	return t.FieldID == nil || *t.FieldID == fieldID
}

// SharesScope reports whether two definitions can collide on some field.
func (t TimeSlot) SharesScope(other TimeSlot) bool {
	if t.FieldID == nil || other.FieldID == nil {
		return true
	}

	return *t.FieldID == *other.FieldID
}

// Overlaps compares the half-open ranges [start,end).
func (t TimeSlot) Overlaps(other TimeSlot) (bool, error) {
	start, end, err := t.bounds()
	if err != nil {
		return false, err
	}

	otherStart, otherEnd, err := other.bounds()
	if err != nil {
		return false, err
	}

	return start < otherEnd && otherStart < end, nil
}

func (t TimeSlot) bounds() (int, int, error) {
	start, err := Minutes(t.StartTime)
	if err != nil {
		return 0, 0, err
	}

	end, err := Minutes(t.EndTime)
	if err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

// PriceOn resolves the price for one calendar date. Saturday and Sunday use the weekend
// price; there is no holiday calendar.
func (t TimeSlot) PriceOn(date time.Time) int64 {
	if timezone.IsWeekend(date) {
		return t.WeekendPrice
	}

	return t.WeekdayPrice
}

// StartsAt and EndsAt place the definition on a calendar date in the application timezone.
func (t TimeSlot) StartsAt(date time.Time) (time.Time, error) {
	clock, err := ParseClock(t.StartTime)
	if err != nil {
		return time.Time{}, err
	}

	return timezone.At(date, clock), nil
}

func (t TimeSlot) EndsAt(date time.Time) (time.Time, error) {
	clock, err := ParseClock(t.EndTime)
	if err != nil {
		return time.Time{}, err
	}

	return timezone.At(date, clock), nil
}

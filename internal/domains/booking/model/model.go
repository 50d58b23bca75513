package model

import (
	"slices"
	"time"

	"arena/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldFieldID          = "field_id"
	FieldTimeSlotID       = "time_slot_id"
	FieldBookingDate      = "booking_date"
	FieldPrice            = "price"
	FieldCustomerName     = "customer_name"
	FieldCustomerPhone    = "customer_phone"
	FieldCustomerEmail    = "customer_email"
	FieldUserID           = "user_id"
	FieldStatus           = "status"
	FieldPaymentStatus    = "payment_status"
	FieldPaymentMethod    = "payment_method"
	FieldPaymentReference = "payment_reference"
	FieldNotes            = "notes"
	FieldDeletedAt        = "deleted_at"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(statusTransitions[s], next)
}

// IsActive reports whether the booking holds its slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return slices.Contains(paymentTransitions[s], next)
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodEWallet      PaymentMethod = "e_wallet"
)

// Booking holds one (field, time slot, date). Price is frozen at creation. The joined
// columns come from the field and time slot and are read-only.
type Booking struct {
	ID               string        `db:"id"`
	FieldID          string        `db:"field_id"`
	TimeSlotID       string        `db:"time_slot_id"`
	BookingDate      time.Time     `db:"booking_date"`
	Price            int64         `db:"price"`
	CustomerName     string        `db:"customer_name"`
	CustomerPhone    string        `db:"customer_phone"`
	CustomerEmail    string        `db:"customer_email"`
	UserID           *string       `db:"user_id"`
	Status           Status        `db:"status"`
	PaymentStatus    PaymentStatus `db:"payment_status"`
	PaymentMethod    PaymentMethod `db:"payment_method"`
	PaymentReference string        `db:"payment_reference"`
	Notes            string        `db:"notes"`
	DeletedAt        *time.Time    `db:"deleted_at"`
	FieldName        string        `db:"field_name" table:"fields"     column:"name"`
	StartTime        string        `db:"start_time" table:"time_slots" column:"start_time"`
	EndTime          string        `db:"end_time"   table:"time_slots" column:"end_time"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN fields ON fields.id = bookings.field_id JOIN time_slots ON time_slots.id = bookings.time_slot_id"
}

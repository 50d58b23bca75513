package dto

import (
	"fmt"
	"strings"
	"time"

	"arena/internal/domains/booking/model"
	"arena/shared"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	gModel "arena/shared/model"
	"arena/shared/timezone"
	"arena/shared/validator"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	FieldID       string `json:"field_id"       validate:"required,uuid"`
	TimeSlotID    string `json:"time_slot_id"   validate:"required,uuid"`
	BookingDate   string `json:"booking_date"   validate:"required,datetime=2006-01-02"`
	CustomerName  string `json:"customer_name"  validate:"required,max=100"`
	CustomerPhone string `json:"customer_phone" validate:"required,phone"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email,max=255"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer e_wallet"`
	Notes         string `json:"notes"          validate:"omitempty,max=1000"`
}

// Normalize trims the free text so a name of only spaces fails the required check.
func (r *CreateBookingRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.Notes = strings.TrimSpace(r.Notes)

	if r.PaymentMethod == "" {
		r.PaymentMethod = string(model.PaymentMethodCash)
	}
}

// ToModel freezes price onto the new booking.
func (r *CreateBookingRequest) ToModel(date time.Time, price int64, referencePrefix, user string) model.Booking {
	id := uuid.NewString()

	var userID *string
	if user != constant.ContextSystem {
		userID = &user
	}

	return model.Booking{
		ID:               id,
		FieldID:          r.FieldID,
		TimeSlotID:       r.TimeSlotID,
		BookingDate:      date,
		Price:            price,
		CustomerName:     r.CustomerName,
		CustomerPhone:    validator.NormalizePhone(r.CustomerPhone),
		CustomerEmail:    r.CustomerEmail,
		UserID:           userID,
		Status:           model.StatusPending,
		PaymentStatus:    model.PaymentStatusPending,
		PaymentMethod:    model.PaymentMethod(r.PaymentMethod),
		PaymentReference: PaymentReference(referencePrefix, id, date),
		Notes:            r.Notes,
		Metadata:         gModel.NewMetadata(timezone.Now(), user),
	}
}

// PaymentReference is the transfer memo the payment collaborator shows to the customer.
func PaymentReference(prefix, bookingID string, date time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(bookingID, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, date.Format("20060102"), short)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// CancelBookingRequest proves the caller made the booking by repeating its phone number.
type CancelBookingRequest struct {
	CustomerPhone string `json:"customer_phone" validate:"required,phone"`
}

func (r *CancelBookingRequest) Normalize() {
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded"`
}

// ListBookingsFilter carries the optional list filters taken from the query string.
type ListBookingsFilter struct {
	FieldID       string `validate:"omitempty,uuid"`
	Status        string `validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `validate:"omitempty,oneof=pending paid refunded"`
	DateFrom      string `validate:"omitempty,datetime=2006-01-02"`
	DateTo        string `validate:"omitempty,datetime=2006-01-02"`
	CustomerPhone string
}

func (f ListBookingsFilter) ToFilterGroup() gDto.FilterGroup {
	filter := gDto.And(shared.NotDeleted(model.TableName))

	filter.Add(model.FieldFieldID, model.TableName, gDto.FilterOperatorEq, f.FieldID)
	filter.Add(model.FieldStatus, model.TableName, gDto.FilterOperatorEq, f.Status)
	filter.Add(model.FieldPaymentStatus, model.TableName, gDto.FilterOperatorEq, f.PaymentStatus)

	if f.CustomerPhone != "" {
		filter.Add(model.FieldCustomerPhone, model.TableName, gDto.FilterOperatorEq, validator.NormalizePhone(f.CustomerPhone))
	}

	if f.DateFrom != "" {
		filter.AddArg("date_from", model.FieldBookingDate, model.TableName, gDto.FilterOperatorGreaterEq, f.DateFrom)
	}

	if f.DateTo != "" {
		filter.AddArg("date_to", model.FieldBookingDate, model.TableName, gDto.FilterOperatorLessEq, f.DateTo)
	}

	return filter
}

type BookingResponse struct {
	ID               string  `json:"id"`
	FieldID          string  `json:"field_id"`
	FieldName        string  `json:"field_name"`
	TimeSlotID       string  `json:"time_slot_id"`
	BookingDate      string  `json:"booking_date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Price            int64   `json:"price"`
	CustomerName     string  `json:"customer_name"`
	CustomerPhone    string  `json:"customer_phone"`
	CustomerEmail    string  `json:"customer_email,omitempty"`
	UserID           *string `json:"user_id,omitempty"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"payment_status"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentReference string  `json:"payment_reference"`
	Notes            string  `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.FieldID = model.FieldID
	r.FieldName = model.FieldName
	r.TimeSlotID = model.TimeSlotID
	r.BookingDate = model.BookingDate.Format(constant.DateOnlyFormat)
	r.StartTime = clock(model.StartTime)
	r.EndTime = clock(model.EndTime)
	r.Price = model.Price
	r.CustomerName = model.CustomerName
	r.CustomerPhone = model.CustomerPhone
	r.CustomerEmail = model.CustomerEmail
	r.UserID = model.UserID
	r.Status = string(model.Status)
	r.PaymentStatus = string(model.PaymentStatus)
	r.PaymentMethod = string(model.PaymentMethod)
	r.PaymentReference = model.PaymentReference
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

// clock trims the seconds postgres adds to TIME values.
func clock(value string) string {
	if len(value) > len(constant.TimeOfDayFormat) {
		return value[:len(constant.TimeOfDayFormat)]
	}

	return value
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// Event payloads. The notification collaborator needs the slot and the customer contact;
// the payment collaborator needs the amount and reference.
type BookingEvent struct {
	BookingID     string `json:"bookingId"`
	FieldID       string `json:"fieldId"`
	FieldName     string `json:"fieldName"`
	BookingDate   string `json:"bookingDate"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

func NewBookingEvent(booking model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:     booking.ID,
		FieldID:       booking.FieldID,
		FieldName:     booking.FieldName,
		BookingDate:   booking.BookingDate.Format(constant.DateOnlyFormat),
		StartTime:     clock(booking.StartTime),
		EndTime:       clock(booking.EndTime),
		CustomerName:  booking.CustomerName,
		CustomerPhone: booking.CustomerPhone,
		CustomerEmail: booking.CustomerEmail,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
	}
}

type StatusChangedEvent struct {
	BookingEvent
	PreviousStatus string `json:"previousStatus"`
}

type PaymentStatusChangedEvent struct {
	BookingEvent
	PreviousPaymentStatus string `json:"previousPaymentStatus"`
}

type PaymentRequestedEvent struct {
	BookingID        string `json:"bookingId"`
	Amount           int64  `json:"amount"`
	PaymentReference string `json:"paymentReference"`
	PaymentMethod    string `json:"paymentMethod"`
}

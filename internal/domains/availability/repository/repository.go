package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"arena/infras/otel"
	"arena/internal/domains/availability/model"
	bookingRepo "arena/internal/domains/booking/repository"
	fieldModel "arena/internal/domains/field/model"
	fieldRepo "arena/internal/domains/field/repository"
	slotLockRepo "arena/internal/domains/slotlock/repository"
	timeSlotModel "arena/internal/domains/timeslot/model"
	timeSlotRepo "arena/internal/domains/timeslot/repository"
	"arena/shared"
	"arena/shared/constant"
	gDto "arena/shared/dto"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// Snapshot reads the catalog, booking and lock rows that decide availability of one field on
// one date. A nil transaction reads from the read pool and fetches bookings and locks
// concurrently; a transaction reads everything on that transaction, one query at a time.
// When the field does not exist or is deleted, the returned Input has an empty Field.
type Snapshot interface {
	Load(ctx context.Context, sqltx *sqlx.Tx, fieldID string, date time.Time) (model.Input, error)
}

type repositoryImpl struct {
	field    fieldRepo.Field
	timeSlot timeSlotRepo.TimeSlot
	booking  bookingRepo.Booking
	slotLock slotLockRepo.SlotLock
	otel     otel.Otel
}

func New(field fieldRepo.Field, timeSlot timeSlotRepo.TimeSlot, booking bookingRepo.Booking, slotLock slotLockRepo.SlotLock, otel otel.Otel) Snapshot {
	return &repositoryImpl{
		field:    field,
		timeSlot: timeSlot,
		booking:  booking,
		slotLock: slotLock,
		otel:     otel,
	}
}

func (r *repositoryImpl) Load(ctx context.Context, sqltx *sqlx.Tx, fieldID string, date time.Time) (in model.Input, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.Load")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	in.Date = date

	fieldFilter := shared.FilterByIDNotDeleted(fieldID, fieldModel.FieldID, fieldModel.TableName)
	slotParams, slotFilter := timeSlotRepo.ActiveInScope(fieldID)

	if sqltx == nil {
		in.Field, err = r.field.Get(ctx, fieldFilter)
	} else {
		in.Field, err = r.field.GetTx(ctx, sqltx, fieldFilter)
	}

	if err != nil {
		return in, fmt.Errorf("failed to get field: %w", err)
	}

	if in.Field.ID == constant.Empty {
		return in, nil
	}

	if sqltx == nil {
		in.TimeSlots, err = r.timeSlot.GetAll(ctx, slotParams, slotFilter)
	} else {
		in.TimeSlots, err = r.timeSlot.GetAllTx(ctx, sqltx, slotParams, slotFilter)
	}

	if err != nil {
		return in, fmt.Errorf("failed to get time slots: %w", err)
	}

	if len(in.TimeSlots) == 0 {
		return in, nil
	}

	slotIDs := make([]string, len(in.TimeSlots))
	for i, slot := range in.TimeSlots {
		slotIDs[i] = slot.ID
	}

	bookingFilter := bookingRepo.ActiveOn(fieldID, date, constant.Empty)
	lockFilter := slotLockRepo.ForDate(date, slotIDs...)

	if sqltx != nil {
		if in.Bookings, err = r.booking.GetAllTx(ctx, sqltx, gDto.QueryParams{}, bookingFilter); err != nil {
			return in, fmt.Errorf("failed to get bookings: %w", err)
		}

		if in.Locks, err = r.slotLock.GetAllTx(ctx, sqltx, gDto.QueryParams{}, lockFilter); err != nil {
			return in, fmt.Errorf("failed to get slot locks: %w", err)
		}

		return in, nil
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		bookings, err := r.booking.GetAll(gctx, gDto.QueryParams{}, bookingFilter)
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}

		in.Bookings = bookings

		return nil
	})

	group.Go(func() error {
		locks, err := r.slotLock.GetAll(gctx, gDto.QueryParams{}, lockFilter)
		if err != nil {
			return fmt.Errorf("failed to get slot locks: %w", err)
		}

		in.Locks = locks

		return nil
	})

	if err = group.Wait(); err != nil {
		return in, err //nolint:wrapcheck
	}

	return in, nil
}

// SlotOf returns the definition with id from the loaded slots.
func SlotOf(in model.Input, id string) (timeSlotModel.TimeSlot, bool) {
	for _, slot := range in.TimeSlots {
		if slot.ID == id {
			return slot, true
		}
	}

	return timeSlotModel.TimeSlot{}, false
}

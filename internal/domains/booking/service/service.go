package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena/config"
	"arena/infras/otel"
	"arena/infras/postgres"
	availabilityModel "arena/internal/domains/availability/model"
	availabilityRepo "arena/internal/domains/availability/repository"
	"arena/internal/domains/booking/model"
	"arena/internal/domains/booking/model/dto"
	"arena/internal/domains/booking/repository"
	opponentModel "arena/internal/domains/opponent/model"
	opponentRepo "arena/internal/domains/opponent/repository"
	timeSlotModel "arena/internal/domains/timeslot/model"
	"arena/shared"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/event"
	"arena/shared/failure"
	gRepo "arena/shared/repository"
	"arena/shared/timezone"
	"arena/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	UpdatePaymentStatus(ctx context.Context, id string, req dto.UpdatePaymentStatusRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ListBookingsFilter) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
	CompleteElapsed(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo       repository.Booking
	snapshot   availabilityRepo.Snapshot
	postRepo   opponentRepo.Post
	transactor postgres.Transactor
	publisher  event.Publisher
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	snapshot availabilityRepo.Snapshot,
	postRepo opponentRepo.Post,
	transactor postgres.Transactor,
	publisher event.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		snapshot:   snapshot,
		postRepo:   postRepo,
		transactor: transactor,
		publisher:  publisher,
		cfg:        cfg,
		otel:       otel,
	}
}

// Create holds a slot for a customer. Availability is checked again inside a serializable
// transaction together with the insert; a concurrent request for the same slot loses with
// SlotUnavailable through the serialization check or the uq_bookings_active_slot index.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	date, err := s.bookingDate(req.BookingDate)
	if err != nil {
		return res, err
	}

	user := shared.UserFromContext(ctx)

	var booking model.Booking

	err = s.transactor.WithTx(ctx, postgres.Serializable(), func(tx *sqlx.Tx) error {
		in, err := s.snapshot.Load(ctx, tx, req.FieldID, date)
		if err != nil {
			return failure.Storage(fmt.Errorf("failed to load availability: %w", err))
		}

		if in.Field.ID == constant.Empty {
			return failure.NotFound("field not found")
		}

		slot, ok := availabilityRepo.SlotOf(in, req.TimeSlotID)
		if !ok {
			return failure.NotFound("time slot not found")
		}

		end, err := slot.EndsAt(date)
		if err != nil {
			return fmt.Errorf("failed to resolve slot end: %w", err)
		}

		if !end.After(timezone.Now()) {
			return failure.Validation("time slot has already ended")
		}

		instance, _ := availabilityModel.Find(availabilityModel.Resolve(in), in.TimeSlots, slot.ID)
		if !instance.Available {
			if instance.LockReason != constant.Empty {
				return failure.SlotUnavailable("slot is locked: " + instance.LockReason)
			}

			return failure.SlotUnavailable("slot already booked")
		}

		booking = req.ToModel(date, slot.PriceOn(date), s.cfg.Booking.PaymentReferencePrefix, user)
		booking.FieldName = in.Field.Name
		booking.StartTime = slot.StartTime
		booking.EndTime = slot.EndTime

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		if gRepo.IsUniqueViolation(err) || gRepo.IsSerializationFailure(err) {
			log.Info().Err(err).Str("fieldID", req.FieldID).Str("timeSlotID", req.TimeSlotID).Str("date", req.BookingDate).Msg("lost booking race")

			return res, failure.SlotUnavailable("slot already booked") // nolint:wrapcheck
		}

		if failure.GetKind(err) == failure.KindUnknown {
			log.Error().Err(err).Msg("failed to create booking")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	s.publish(ctx,
		event.New(event.BookingCreated, booking.ID, dto.NewBookingEvent(booking)),
		event.New(event.BookingPaymentRequested, booking.ID, dto.PaymentRequestedEvent{
			BookingID:        booking.ID,
			Amount:           booking.Price,
			PaymentReference: booking.PaymentReference,
			PaymentMethod:    string(booking.PaymentMethod),
		}),
	)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) bookingDate(value string) (time.Time, error) {
	date, err := timezone.ParseDate(value)
	if err != nil {
		return date, failure.Validation("booking_date must be a date in YYYY-MM-DD format") // nolint:wrapcheck
	}

	today := timezone.Today()
	if date.Before(today) {
		return date, failure.Validation("booking_date must not be in the past") // nolint:wrapcheck
	}

	if maxDays := s.cfg.Booking.MaxAdvanceDays; maxDays > 0 && date.After(today.AddDate(0, 0, maxDays)) {
		return date, failure.Validation(fmt.Sprintf("booking_date must be within %d days", maxDays)) // nolint:wrapcheck
	}

	return date, nil
}

// UpdateStatus moves a booking along the status table. Cancelling or completing a booking
// moves its opponent post in the same transaction.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	next := model.Status(req.Status)
	if !next.Valid() {
		return res, failure.Validation("unknown booking status " + req.Status) // nolint:wrapcheck
	}

	return s.transition(ctx, id, next, nil)
}

// Cancel is the customer's own cancellation. A phone that does not match the booking reads
// as an unknown booking.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	phone := validator.NormalizePhone(req.CustomerPhone)

	return s.transition(ctx, id, model.StatusCancelled, func(booking model.Booking) error {
		if booking.CustomerPhone != phone {
			return failure.NotFound("booking not found")
		}

		return nil
	})
}

// transition applies next under a row lock. guard, when set, sees the locked booking first.
func (s *serviceImpl) transition(ctx context.Context, id string, next model.Status, guard func(model.Booking) error) (res dto.BookingResponse, err error) {
	user := shared.UserFromContext(ctx)

	var booking model.Booking

	var previous model.Status

	err = s.transactor.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		if booking, err = s.getForUpdate(ctx, tx, id); err != nil {
			return err
		}

		if guard != nil {
			if err := guard(booking); err != nil {
				return err
			}
		}

		previous = booking.Status

		if !previous.CanTransitionTo(next) {
			return failure.InvalidTransition(fmt.Sprintf("cannot change booking status from %s to %s", previous, next))
		}

		if next == model.StatusCompleted {
			if err := ensureElapsed(booking); err != nil {
				return err
			}
		}

		mod := map[string]any{
			model.FieldStatus:        string(next),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, mod, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return failure.Storage(fmt.Errorf("failed to update booking status: %w", err))
		}

		booking.Status = next

		return s.cascadePost(ctx, tx, booking.ID, next, user)
	})
	if err != nil {
		if failure.GetKind(err) == failure.KindUnknown {
			log.Error().Err(err).Str("id", id).Msg("failed to update booking status")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	s.publish(ctx, event.New(event.BookingStatusChanged, booking.ID, dto.StatusChangedEvent{
		BookingEvent:   dto.NewBookingEvent(booking),
		PreviousStatus: string(previous),
	}))

	res.FromModel(booking)

	return res, nil
}

// ensureElapsed rejects completing a booking whose slot has not ended yet.
func ensureElapsed(booking model.Booking) error {
	slot := timeSlotModel.TimeSlot{StartTime: booking.StartTime, EndTime: booking.EndTime}

	end, err := slot.EndsAt(timezone.Date(booking.BookingDate))
	if err != nil {
		return fmt.Errorf("failed to resolve slot end: %w", err)
	}

	if timezone.Now().Before(end) {
		return failure.InvalidTransition("booking cannot be completed before its slot has ended") // nolint:wrapcheck
	}

	return nil
}

// cascadePost applies a booking status change to the post anchored on the booking. A
// cancelled booking cancels its post and reopens a matched partner; a completed booking
// completes a matched post and cancels an open one.
func (s *serviceImpl) cascadePost(ctx context.Context, tx *sqlx.Tx, bookingID string, next model.Status, user string) error {
	if next != model.StatusCancelled && next != model.StatusCompleted {
		return nil
	}

	post, err := s.postRepo.GetForUpdateTx(ctx, tx, opponentRepo.ByBooking(bookingID))
	if err != nil {
		return failure.Storage(fmt.Errorf("failed to get opponent post: %w", err))
	}

	if post.ID == constant.Empty {
		return nil
	}

	target := opponentModel.StatusCancelled
	if next == model.StatusCompleted && post.Status == opponentModel.StatusMatched {
		target = opponentModel.StatusCompleted
	}

	if !post.Status.CanTransitionTo(target) {
		return nil
	}

	mod := map[string]any{
		opponentModel.FieldStatus: string(target),
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}

	if target == opponentModel.StatusCancelled {
		mod[opponentModel.FieldMatchedPostID] = nil
	}

	if err = s.postRepo.UpdateTx(ctx, tx, mod, shared.FilterByID(post.ID, opponentModel.FieldID, opponentModel.TableName)); err != nil {
		return failure.Storage(fmt.Errorf("failed to update opponent post: %w", err))
	}

	if target != opponentModel.StatusCancelled || post.MatchedPostID == nil {
		return nil
	}

	partner, err := s.postRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(*post.MatchedPostID, opponentModel.FieldID, opponentModel.TableName))
	if err != nil {
		return failure.Storage(fmt.Errorf("failed to get matched opponent post: %w", err))
	}

	if partner.Status != opponentModel.StatusMatched || !partner.MatchedWith(post.ID) {
		return nil
	}

	reopen := map[string]any{
		opponentModel.FieldStatus:        string(opponentModel.StatusOpen),
		opponentModel.FieldMatchedPostID: nil,
		constant.FieldModifiedAt:         timezone.Now(),
		constant.FieldModifiedBy:         user,
	}

	if err = s.postRepo.UpdateTx(ctx, tx, reopen, shared.FilterByID(partner.ID, opponentModel.FieldID, opponentModel.TableName)); err != nil {
		return failure.Storage(fmt.Errorf("failed to reopen matched opponent post: %w", err))
	}

	return nil
}

// UpdatePaymentStatus records a payment outcome: paid only from pending, refunded only from paid.
func (s *serviceImpl) UpdatePaymentStatus(ctx context.Context, id string, req dto.UpdatePaymentStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.UpdatePaymentStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	next := model.PaymentStatus(req.PaymentStatus)
	if !next.Valid() {
		return res, failure.Validation("unknown payment status " + req.PaymentStatus) // nolint:wrapcheck
	}

	var booking model.Booking

	var previous model.PaymentStatus

	err = s.transactor.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		if booking, err = s.getForUpdate(ctx, tx, id); err != nil {
			return err
		}

		previous = booking.PaymentStatus

		if !previous.CanTransitionTo(next) {
			return failure.InvalidTransition(fmt.Sprintf("cannot change payment status from %s to %s", previous, next))
		}

		mod := map[string]any{
			model.FieldPaymentStatus: string(next),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: shared.UserFromContext(ctx),
		}

		if err := s.repo.UpdateTx(ctx, tx, mod, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return failure.Storage(fmt.Errorf("failed to update payment status: %w", err))
		}

		booking.PaymentStatus = next

		return nil
	})
	if err != nil {
		if failure.GetKind(err) == failure.KindUnknown {
			log.Error().Err(err).Str("id", id).Msg("failed to update payment status")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	s.publish(ctx, event.New(event.BookingPaymentStatusChanged, booking.ID, dto.PaymentStatusChangedEvent{
		BookingEvent:          dto.NewBookingEvent(booking),
		PreviousPaymentStatus: string(previous),
	}))

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) getForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByIDNotDeleted(id, model.FieldID, model.TableName))
	if err != nil {
		return booking, failure.Storage(fmt.Errorf("failed to get booking: %w", err))
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ListBookingsFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&filter); err != nil {
		return res, err
	}

	req.Sanitize(model.FieldBookingDate, model.FieldPrice, model.FieldStatus, model.FieldPaymentStatus, model.FieldCustomerName, constant.FieldCreatedAt)

	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = model.FieldBookingDate, gDto.SortDirDesc
	}

	req.SortBy = model.TableName + "." + req.SortBy
	where := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, where)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, failure.Storage(fmt.Errorf("failed to count bookings: %w", err))
	}

	models, err := s.repo.GetAll(ctx, req, where)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, failure.Storage(fmt.Errorf("failed to get bookings: %w", err))
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, shared.FilterByIDNotDeleted(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return res, failure.Storage(fmt.Errorf("failed to get booking: %w", err))
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

// Delete soft deletes a cancelled or completed booking. Active bookings stay visible.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByIDNotDeleted(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return failure.Storage(fmt.Errorf("failed to get booking: %w", err))
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !booking.Status.IsTerminal() {
		return failure.InvalidTransition("only cancelled or completed bookings can be deleted") // nolint:wrapcheck
	}

	now := timezone.Now()
	mod := map[string]any{
		model.FieldDeletedAt:     now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: shared.UserFromContext(ctx),
	}

	if err = s.repo.Update(ctx, mod, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete booking")

		return failure.Storage(fmt.Errorf("failed to delete booking: %w", err))
	}

	return nil
}

// CompleteElapsed completes the confirmed bookings whose slot has ended. It goes through
// UpdateStatus one booking at a time, so posts and events follow as for a manual change.
func (s *serviceImpl) CompleteElapsed(ctx context.Context) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.CompleteElapsed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.And(
		shared.NotDeleted(model.TableName),
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: string(model.StatusConfirmed)},
	)
	filter.AddArg("date_to", model.FieldBookingDate, model.TableName, gDto.FilterOperatorLessEq, timezone.Today().Format(constant.DateOnlyFormat))

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get confirmed bookings")

		return 0, failure.Storage(fmt.Errorf("failed to get confirmed bookings: %w", err))
	}

	for _, booking := range bookings {
		if ensureElapsed(booking) != nil {
			continue
		}

		_, err := s.UpdateStatus(ctx, booking.ID, dto.UpdateStatusRequest{Status: string(model.StatusCompleted)})
		if err != nil {
			if errors.Is(err, failure.ErrInvalidTransition) || errors.Is(err, failure.ErrNotFound) {
				continue
			}

			return completed, err
		}

		completed++
	}

	return completed, nil
}

// publish hands events to the broker without blocking the caller. A failed publish is
// logged and never undoes the booking change.
func (s *serviceImpl) publish(ctx context.Context, events ...event.Event) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.Publish(c, events...); err != nil {
			log.Error().Err(err).Int("count", len(events)).Msg("failed to publish booking events")
		}
	}()
}

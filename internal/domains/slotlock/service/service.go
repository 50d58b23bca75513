package service

import (
	"context"
	"fmt"
	"time"

	"arena/infras/otel"
	"arena/internal/domains/slotlock/model"
	"arena/internal/domains/slotlock/model/dto"
	"arena/internal/domains/slotlock/repository"
	timeSlotModel "arena/internal/domains/timeslot/model"
	timeSlotRepo "arena/internal/domains/timeslot/repository"
	"arena/shared"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/failure"

	"github.com/rs/zerolog/log"
)

// SlotLock is the admin lock registry. Lock state feeds availability directly, so nothing here is cached.
type SlotLock interface {
	Lock(ctx context.Context, req dto.LockRequest) (dto.SlotLockResponse, error)
	Unlock(ctx context.Context, req dto.UnlockRequest) (dto.SlotLockResponse, error)
	IsLocked(ctx context.Context, timeSlotID string, date time.Time) (dto.LockStatusResponse, error)
	List(ctx context.Context, timeSlotID string) (dto.GetSlotLocksResponse, error)
}

type serviceImpl struct {
	repo         repository.SlotLock
	timeSlotRepo timeSlotRepo.TimeSlot
	otel         otel.Otel
}

func New(repo repository.SlotLock, timeSlotRepo timeSlotRepo.TimeSlot, otel otel.Otel) SlotLock {
	return &serviceImpl{
		repo:         repo,
		timeSlotRepo: timeSlotRepo,
		otel:         otel,
	}
}

// Lock locks a slot on one date, or on every date when no date is given. Locking an already
// locked key only replaces the reason.
func (s *serviceImpl) Lock(ctx context.Context, req dto.LockRequest) (res dto.SlotLockResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SlotLock.Lock")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.save(ctx, req.TimeSlotID, req.LockDate, true, req.Reason)
}

// Unlock on a date stores an unlocked override for that date, which beats a standing lock.
// Unlock without a date clears the standing lock.
func (s *serviceImpl) Unlock(ctx context.Context, req dto.UnlockRequest) (res dto.SlotLockResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SlotLock.Unlock")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.save(ctx, req.TimeSlotID, req.LockDate, false, constant.Empty)
}

func (s *serviceImpl) save(ctx context.Context, timeSlotID, lockDate string, locked bool, reason string) (res dto.SlotLockResponse, err error) {
	date, err := dto.ParseDate(lockDate)
	if err != nil {
		return res, failure.Validation("lock_date must be a date in YYYY-MM-DD format") // nolint:wrapcheck
	}

	if err = s.ensureTimeSlot(ctx, timeSlotID); err != nil {
		return res, err
	}

	lock := dto.NewSlotLock(timeSlotID, date, locked, reason, shared.UserFromContext(ctx))

	if err = s.repo.Upsert(ctx, lock, repository.ConflictTarget(date), repository.UpdateColumns...); err != nil {
		log.Error().Err(err).Str("timeSlotID", timeSlotID).Bool("locked", locked).Msg("failed to save slot lock")

		return res, failure.Storage(fmt.Errorf("failed to save slot lock: %w", err))
	}

	stored, err := s.repo.Get(ctx, repository.Key(timeSlotID, date))
	if err != nil {
		log.Error().Err(err).Str("timeSlotID", timeSlotID).Msg("failed to read slot lock")

		return res, failure.Storage(fmt.Errorf("failed to read slot lock: %w", err))
	}

	if stored.ID == constant.Empty {
		stored = lock
	}

	res.FromModel(stored)

	return res, nil
}

func (s *serviceImpl) ensureTimeSlot(ctx context.Context, timeSlotID string) error {
	slot, err := s.timeSlotRepo.Get(ctx, shared.FilterByID(timeSlotID, timeSlotModel.FieldID, timeSlotModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("timeSlotID", timeSlotID).Msg("failed to get time slot")

		return failure.Storage(fmt.Errorf("failed to get time slot: %w", err))
	}

	if slot.ID == constant.Empty {
		return failure.NotFound("time slot not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) IsLocked(ctx context.Context, timeSlotID string, date time.Time) (res dto.LockStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SlotLock.IsLocked")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	locks, err := s.repo.GetAll(ctx, gDto.QueryParams{}, repository.ForDate(date, timeSlotID))
	if err != nil {
		log.Error().Err(err).Str("timeSlotID", timeSlotID).Msg("failed to get slot locks")

		return res, failure.Storage(fmt.Errorf("failed to get slot locks: %w", err))
	}

	res.TimeSlotID = timeSlotID
	res.Date = date.Format(constant.DateOnlyFormat)
	res.Locked, res.Reason = model.Resolve(locks, timeSlotID, date)

	return res, nil
}

// List returns every stored lock row, or the rows of one slot.
func (s *serviceImpl) List(ctx context.Context, timeSlotID string) (res dto.GetSlotLocksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SlotLock.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.And()
	filter.Add(model.FieldTimeSlotID, model.TableName, gDto.FilterOperatorEq, timeSlotID)

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldTimeSlotID + ", " + model.TableName + "." + model.FieldLockDate,
		SortDir: gDto.SortDirAsc + " NULLS FIRST",
	}

	locks, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot locks")

		return res, failure.Storage(fmt.Errorf("failed to get slot locks: %w", err))
	}

	res.FromModels(locks)

	return res, nil
}

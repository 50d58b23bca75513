package service

import (
	"context"
	"fmt"

	"arena/config"
	"arena/infras/otel"
	"arena/infras/postgres"
	fieldModel "arena/internal/domains/field/model"
	fieldRepo "arena/internal/domains/field/repository"
	"arena/internal/domains/timeslot/model"
	"arena/internal/domains/timeslot/model/dto"
	"arena/internal/domains/timeslot/repository"
	"arena/shared"
	"arena/shared/cache"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/failure"
	"arena/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetTimeSlot    = "timeslot:get"
	cacheGetAllTimeSlot = "timeslot:gets"
)

type TimeSlot interface {
	List(ctx context.Context, fieldID string) (dto.GetTimeSlotsResponse, error)
	Get(ctx context.Context, id string) (dto.TimeSlotResponse, error)
	Upsert(ctx context.Context, id string, req dto.UpsertTimeSlotRequest) (dto.TimeSlotResponse, error)
}

type serviceImpl struct {
	repo       repository.TimeSlot
	fieldRepo  fieldRepo.Field
	transactor postgres.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(repo repository.TimeSlot, fieldRepo fieldRepo.Field, transactor postgres.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) TimeSlot {
	return &serviceImpl{
		repo:       repo,
		fieldRepo:  fieldRepo,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// List returns the definitions in the scope of fieldID, or every definition when fieldID is empty.
func (s *serviceImpl) List(ctx context.Context, fieldID string) (res dto.GetTimeSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TimeSlot.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetAllTimeSlot, fieldID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for time slots")

		return res, nil
	}

	params, _ := repository.ActiveInScope(fieldID)

	var filter gDto.FilterGroup
	if fieldID != constant.Empty {
		filter = repository.ScopeFilter(fieldID)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get time slots")

		return res, failure.Storage(fmt.Errorf("failed to get time slots: %w", err))
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save time slots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TimeSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TimeSlot.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetTimeSlot, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for time slot")

		return res, nil
	}

	slot, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(slot)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save time slot to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.TimeSlot, error) {
	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get time slot")

		return slot, failure.Storage(fmt.Errorf("failed to get time slot: %w", err))
	}

	if slot.ID == constant.Empty {
		return slot, failure.NotFound("time slot not found") // nolint:wrapcheck
	}

	return slot, nil
}

// Upsert creates a definition when id is empty and replaces it otherwise. An active
// definition may not overlap another active one in a shared scope.
func (s *serviceImpl) Upsert(ctx context.Context, id string, req dto.UpsertTimeSlotRequest) (res dto.TimeSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TimeSlot.Upsert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.UserFromContext(ctx)

	var slot model.TimeSlot

	// Overlap check and write run under the definitions lock so two admins cannot both pass the check.
	err = s.transactor.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := s.repo.LockDefinitionsTx(ctx, tx); err != nil {
			return failure.Storage(fmt.Errorf("failed to lock time slot definitions: %w", err))
		}

		if id == constant.Empty {
			slot = req.ToModel(user)
		} else {
			current, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				return failure.Storage(fmt.Errorf("failed to get time slot: %w", err))
			}

			if current.ID == constant.Empty {
				return failure.NotFound("time slot not found")
			}

			slot = current
			slot.FieldID = req.FieldID
			slot.StartTime = req.StartTime
			slot.EndTime = req.EndTime
			slot.WeekdayPrice = req.WeekdayPrice
			slot.WeekendPrice = req.WeekendPrice
			slot.IsActive = req.Active()
			slot.ModifiedAt = timezone.Now()
			slot.ModifiedBy = user
		}

		if err := s.validate(ctx, tx, slot); err != nil {
			return err
		}

		var saveErr error
		if id == constant.Empty {
			saveErr = s.repo.InsertTx(ctx, tx, slot)
		} else {
			saveErr = s.repo.UpdateTx(ctx, tx, req.ToUpdate(user), shared.FilterByID(id, model.FieldID, model.TableName))
		}

		if saveErr != nil {
			return failure.Storage(fmt.Errorf("failed to save time slot: %w", saveErr))
		}

		return nil
	})
	if err != nil {
		if kind := failure.GetKind(err); kind == failure.KindStorage || kind == failure.KindUnknown {
			log.Error().Err(err).Str("id", id).Msg("failed to save time slot")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetTimeSlot, slot.ID))
		shared.InvalidateCaches(c, s.cache, cacheGetAllTimeSlot)
	}()

	res.FromModel(slot)

	return res, nil
}

func (s *serviceImpl) validate(ctx context.Context, tx *sqlx.Tx, slot model.TimeSlot) error {
	start, err := model.Minutes(slot.StartTime)
	if err != nil {
		return failure.Validation("start_time must be a time of day in HH:MM format") // nolint:wrapcheck
	}

	end, err := model.Minutes(slot.EndTime)
	if err != nil {
		return failure.Validation("end_time must be a time of day in HH:MM format") // nolint:wrapcheck
	}

	if start >= end {
		return failure.Validation("start_time must be before end_time") // nolint:wrapcheck
	}

	if slot.FieldID != nil {
		field, err := s.fieldRepo.Get(ctx, shared.FilterByIDNotDeleted(*slot.FieldID, fieldModel.FieldID, fieldModel.TableName))
		if err != nil {
			log.Error().Err(err).Str("fieldID", *slot.FieldID).Msg("failed to get field")

			return failure.Storage(fmt.Errorf("failed to get field: %w", err))
		}

		if field.ID == constant.Empty {
			return failure.NotFound("field not found") // nolint:wrapcheck
		}
	}

	if !slot.IsActive {
		return nil
	}

	return s.checkOverlap(ctx, tx, slot)
}

// checkOverlap compares slot with every active definition it shares a scope with. A global
// definition shares the scope of every field, so it is compared with all of them.
func (s *serviceImpl) checkOverlap(ctx context.Context, tx *sqlx.Tx, slot model.TimeSlot) error {
	fieldID := constant.Empty
	if slot.FieldID != nil {
		fieldID = *slot.FieldID
	}

	params, filter := repository.ActiveInScope(fieldID)
	if slot.IsGlobal() {
		filter = gDto.And(gDto.Filter{Field: model.FieldIsActive, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: true})
	}

	actives, err := s.repo.GetAllTx(ctx, tx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active time slots")

		return failure.Storage(fmt.Errorf("failed to get active time slots: %w", err))
	}

	for _, other := range actives {
		if other.ID == slot.ID || !slot.SharesScope(other) {
			continue
		}

		overlaps, err := slot.Overlaps(other)
		if err != nil {
			log.Error().Err(err).Str("id", other.ID).Msg("stored time slot has an invalid time of day")

			return fmt.Errorf("failed to compare time slots: %w", err)
		}

		if overlaps {
			return failure.Validation(fmt.Sprintf("time slot overlaps %s-%s", other.Start(), other.End())) // nolint:wrapcheck
		}
	}

	return nil
}

package service

import (
	"context"
	"fmt"

	"arena/config"
	"arena/infras/otel"
	bookingRepo "arena/internal/domains/booking/repository"
	"arena/internal/domains/field/model"
	"arena/internal/domains/field/model/dto"
	"arena/internal/domains/field/repository"
	"arena/shared"
	"arena/shared/cache"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/failure"
	"arena/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetField    = "field:get"
	cacheGetAllField = "field:gets"
	cacheCountField  = "field:count"
)

type Field interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetFieldsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.FieldResponse, error)
	Upsert(ctx context.Context, id string, req dto.UpsertFieldRequest) (dto.FieldResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Field
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Field, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Field {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFieldsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Field.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter = gDto.And(filter, shared.NotDeleted(model.TableName))
	req.Sanitize(model.FieldName, model.FieldSize, model.FieldBaseRate, model.FieldStatus, constant.FieldCreatedAt)

	if req.SortBy == "" {
		req.SortBy, req.SortDir = model.FieldName, gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllField, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for fields")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	params := req
	params.SortBy = model.TableName + "." + req.SortBy

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get fields")

		return res, failure.Storage(fmt.Errorf("failed to get fields: %w", err))
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save fields to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Field.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountField, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for field count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count fields")

		return res, failure.Storage(fmt.Errorf("failed to count fields: %w", err))
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save field count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.FieldResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Field.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetField, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for field")

		return res, nil
	}

	field, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(field)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save field to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Field, error) {
	field, err := s.repo.Get(ctx, shared.FilterByIDNotDeleted(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get field")

		return field, failure.Storage(fmt.Errorf("failed to get field: %w", err))
	}

	if field.ID == constant.Empty {
		return field, failure.NotFound("field not found") // nolint:wrapcheck
	}

	return field, nil
}

// Upsert creates a field when id is empty and replaces the editable columns otherwise.
func (s *serviceImpl) Upsert(ctx context.Context, id string, req dto.UpsertFieldRequest) (res dto.FieldResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Field.Upsert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.UserFromContext(ctx)

	var field model.Field

	if id == constant.Empty {
		field = req.ToModel(user)

		if err = s.repo.Insert(ctx, field); err != nil {
			log.Error().Err(err).Msg("failed to insert field")

			return res, failure.Storage(fmt.Errorf("failed to insert field: %w", err))
		}
	} else {
		if field, err = s.get(ctx, id); err != nil {
			return res, err
		}

		if req.Status == constant.Empty {
			req.Status = string(field.Status)
		}

		if err = s.repo.Update(ctx, req.ToUpdate(user), shared.FilterByIDNotDeleted(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to update field")

			return res, failure.Storage(fmt.Errorf("failed to update field: %w", err))
		}

		field.Name = req.Name
		field.Location = req.Location
		field.Size = model.Size(req.Size)
		field.BaseRate = req.BaseRate
		field.Status = model.Status(req.Status)
		field.ModifiedAt = timezone.Now()
		field.ModifiedBy = user
	}

	s.invalidate(ctx, field.ID)

	res.FromModel(field)

	return res, nil
}

// Delete soft deletes a field. Fields that still hold pending or confirmed bookings are kept.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Field.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.get(ctx, id); err != nil {
		return err
	}

	held, err := s.bookingRepo.Exist(ctx, bookingRepo.HoldingField(id))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to check field bookings")

		return failure.Storage(fmt.Errorf("failed to check field bookings: %w", err))
	}

	if held {
		return failure.Conflict("field has active bookings") // nolint:wrapcheck
	}

	now := timezone.Now()
	mod := map[string]any{
		model.FieldDeletedAt:     now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: shared.UserFromContext(ctx),
	}

	if err = s.repo.Update(ctx, mod, shared.FilterByIDNotDeleted(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete field")

		return failure.Storage(fmt.Errorf("failed to delete field: %w", err))
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetField, id))
		shared.InvalidateCaches(c, s.cache, cacheGetAllField)
		shared.InvalidateCaches(c, s.cache, cacheCountField)
	}()
}

package service

import (
	"context"
	"fmt"

	"arena/infras/otel"
	"arena/internal/domains/availability/model"
	"arena/internal/domains/availability/model/dto"
	"arena/internal/domains/availability/repository"
	"arena/shared/constant"
	"arena/shared/failure"
	"arena/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Availability answers which slots of a field can be booked on a date. Results depend on
// bookings and locks that change between calls, so they are never cached.
type Availability interface {
	GetAvailableSlots(ctx context.Context, fieldID, date string) (dto.GetAvailableSlotsResponse, error)
}

type serviceImpl struct {
	snapshot repository.Snapshot
	otel     otel.Otel
}

func New(snapshot repository.Snapshot, otel otel.Otel) Availability {
	return &serviceImpl{
		snapshot: snapshot,
		otel:     otel,
	}
}

func (s *serviceImpl) GetAvailableSlots(ctx context.Context, fieldID, date string) (res dto.GetAvailableSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability.GetAvailableSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := timezone.ParseDate(date)
	if err != nil {
		return res, failure.Validation("date must be a date in YYYY-MM-DD format") // nolint:wrapcheck
	}

	in, err := s.snapshot.Load(ctx, nil, fieldID, day)
	if err != nil {
		log.Error().Err(err).Str("fieldID", fieldID).Str("date", date).Msg("failed to load availability")

		return res, failure.Storage(fmt.Errorf("failed to load availability: %w", err))
	}

	if in.Field.ID == constant.Empty {
		return res, failure.NotFound("field not found") // nolint:wrapcheck
	}

	res.FromModels(in, model.Resolve(in))

	return res, nil
}

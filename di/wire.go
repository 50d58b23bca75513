//go:build wireinject
// +build wireinject

package di

import (
	"arena/config"
	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/infras/redis"
	"arena/infras/scheduler"
	"arena/internal/jobs/sweep"
	"arena/shared/cache"
	"arena/shared/event"
	"arena/transport/http"
	"arena/transport/http/middleware"
	"arena/transport/http/router"

	availabilityRepository "arena/internal/domains/availability/repository"
	availabilityService "arena/internal/domains/availability/service"
	bookingRepository "arena/internal/domains/booking/repository"
	bookingService "arena/internal/domains/booking/service"
	fieldRepository "arena/internal/domains/field/repository"
	fieldService "arena/internal/domains/field/service"
	opponentRepository "arena/internal/domains/opponent/repository"
	opponentService "arena/internal/domains/opponent/service"
	slotLockRepository "arena/internal/domains/slotlock/repository"
	slotLockService "arena/internal/domains/slotlock/service"
	timeSlotRepository "arena/internal/domains/timeslot/repository"
	timeSlotService "arena/internal/domains/timeslot/service"

	availabilityHandler "arena/internal/handlers/availability"
	bookingHandler "arena/internal/handlers/booking"
	fieldHandler "arena/internal/handlers/field"
	healthHandler "arena/internal/handlers/health"
	opponentHandler "arena/internal/handlers/opponent"
	slotLockHandler "arena/internal/handlers/slotlock"
	timeSlotHandler "arena/internal/handlers/timeslot"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	scheduler.New,
	event.NewPublisher,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var catalogDomain = wire.NewSet(
	fieldRepository.New,
	fieldService.New,
	timeSlotRepository.New,
	timeSlotService.New,
)

var slotLockDomain = wire.NewSet(
	slotLockRepository.New,
	slotLockService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var opponentDomain = wire.NewSet(
	opponentRepository.New,
	opponentService.New,
)

var domains = wire.NewSet(
	catalogDomain,
	slotLockDomain,
	availabilityDomain,
	bookingDomain,
	opponentDomain,
)

var jobs = wire.NewSet(
	wire.Bind(new(sweep.PostExpirer), new(opponentService.Opponent)),
	wire.Bind(new(sweep.BookingCompleter), new(bookingService.Booking)),
	sweep.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	fieldHandler.New,
	timeSlotHandler.New,
	slotLockHandler.New,
	availabilityHandler.New,
	bookingHandler.New,
	opponentHandler.New,
	router.New,
)

func InitializeService() (*Application, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		jobs,
		routing,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}, nil
}

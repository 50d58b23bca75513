package router

import (
	"arena/internal/handlers/availability"
	"arena/internal/handlers/booking"
	"arena/internal/handlers/field"
	"arena/internal/handlers/health"
	"arena/internal/handlers/opponent"
	"arena/internal/handlers/slotlock"
	"arena/internal/handlers/timeslot"
	"arena/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Health       health.Handler
	Field        field.Handler
	TimeSlot     timeslot.Handler
	SlotLock     slotlock.Handler
	Availability availability.Handler
	Booking      booking.Handler
	Opponent     opponent.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	Auth           middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.App.RequestID, r.App.Tracing, r.Auth.User)

	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.RateLimit())

		r.DomainHandlers.Field.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.TimeSlot.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Opponent.Router(routerGroup)

		routerGroup.Route("/admin", func(adminGroup chi.Router) {
			adminGroup.Use(r.Auth.APIKey)

			r.DomainHandlers.Field.AdminRouter(adminGroup)
			r.DomainHandlers.TimeSlot.AdminRouter(adminGroup)
			r.DomainHandlers.SlotLock.AdminRouter(adminGroup)
			r.DomainHandlers.Booking.AdminRouter(adminGroup)
		})
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		Auth:           auth,
	}
}

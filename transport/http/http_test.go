package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"arena/config"
	"arena/infras/otel/mocks"
	"arena/internal/handlers/availability"
	"arena/internal/handlers/booking"
	"arena/internal/handlers/field"
	"arena/internal/handlers/health"
	"arena/internal/handlers/opponent"
	"arena/internal/handlers/slotlock"
	"arena/internal/handlers/timeslot"
	cacheMocks "arena/shared/cache/mocks"
	"arena/shared/constant"
	transport "arena/transport/http"
	"arena/transport/http/middleware"
	"arena/transport/http/router"

	"github.com/stretchr/testify/assert"
)

const bookingID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func newServer(t *testing.T, healthy bool) *transport.HTTP {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "secret"

	otl := mocks.NewOtel()

	check := func(context.Context) error { return nil }
	if !healthy {
		check = func(context.Context) error { return errors.New("connection refused") }
	}

	handlers := router.DomainHandlers{
		Health:       health.WithChecks(map[string]health.Check{"postgres": check}, otl),
		Field:        field.New(nil, otl),
		TimeSlot:     timeslot.New(nil, otl),
		SlotLock:     slotlock.New(nil, otl),
		Availability: availability.New(nil, otl),
		Booking:      booking.New(nil, otl),
		Opponent:     opponent.New(nil, otl),
	}

	r := router.New(
		handlers,
		middleware.NewAppMiddleware(otl, cfg, cacheMocks.NewCache()),
		middleware.NewAuthMiddleware(otl, cfg),
	)

	return transport.New(cfg, r)
}

func TestHTTP_ServeHTTP(t *testing.T) {
	tests := []struct {
		name    string
		healthy bool
		method  string
		path    string
		apiKey  string
		want    int
	}{
		{name: "healthy", healthy: true, method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "unhealthy", method: http.MethodGet, path: "/healthz", want: http.StatusServiceUnavailable},
		{name: "admin without key", healthy: true, method: http.MethodPost, path: "/v1/admin/fields", want: http.StatusUnauthorized},
		{name: "admin with wrong key", healthy: true, method: http.MethodDelete, path: "/v1/admin/bookings/b-1", apiKey: "guess", want: http.StatusUnauthorized},
		{name: "slot locks are admin only", healthy: true, method: http.MethodGet, path: "/v1/slot-locks", want: http.StatusNotFound},
		{name: "unknown route", healthy: true, method: http.MethodGet, path: "/v1/rooms", want: http.StatusNotFound},
		{name: "booking list is admin only", healthy: true, method: http.MethodGet, path: "/v1/bookings", want: http.StatusMethodNotAllowed},
		{name: "booking status is admin only", healthy: true, method: http.MethodPatch, path: "/v1/bookings/" + bookingID + "/status", want: http.StatusNotFound},
		{name: "payment status is admin only", healthy: true, method: http.MethodPatch, path: "/v1/bookings/" + bookingID + "/payment-status", want: http.StatusNotFound},
		{name: "admin booking list without key", healthy: true, method: http.MethodGet, path: "/v1/admin/bookings", want: http.StatusUnauthorized},
		{name: "admin booking status without key", healthy: true, method: http.MethodPatch, path: "/v1/admin/bookings/" + bookingID + "/status", want: http.StatusUnauthorized},
		{name: "malformed booking id", healthy: true, method: http.MethodGet, path: "/v1/bookings/abc", want: http.StatusBadRequest},
		{name: "malformed booking id on cancel", healthy: true, method: http.MethodPost, path: "/v1/bookings/abc/cancel", want: http.StatusBadRequest},
		{name: "malformed booking id on admin route", healthy: true, method: http.MethodDelete, path: "/v1/admin/bookings/abc", apiKey: "secret", want: http.StatusBadRequest},
		{name: "malformed field id", healthy: true, method: http.MethodGet, path: "/v1/fields/abc", want: http.StatusBadRequest},
		{name: "malformed field id on availability", healthy: true, method: http.MethodGet, path: "/v1/fields/abc/slots?date=2099-01-02", want: http.StatusBadRequest},
		{name: "malformed post id", healthy: true, method: http.MethodPost, path: "/v1/opponents/abc/match", want: http.StatusBadRequest},
		{name: "malformed time slot id", healthy: true, method: http.MethodGet, path: "/v1/time-slots/abc", want: http.StatusBadRequest},
		{name: "malformed field_id query", healthy: true, method: http.MethodGet, path: "/v1/time-slots?field_id=abc", want: http.StatusBadRequest},
		{name: "malformed time_slot_id query", healthy: true, method: http.MethodGet, path: "/v1/admin/slot-locks?time_slot_id=abc", apiKey: "secret", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.healthy)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, transport.ServerStateReady, server.State())
		})
	}
}

func TestHTTP_ServeHTTP_RequestID(t *testing.T) {
	server := newServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(constant.RequestHeaderRequestID, "req-1")

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(constant.RequestHeaderRequestID))
}

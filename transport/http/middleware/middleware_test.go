package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"arena/config"
	"arena/infras/otel/mocks"
	cacheMocks "arena/shared/cache/mocks"
	"arena/shared/constant"
	"arena/transport/http/middleware"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth_APIKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		want       int
	}{
		{name: "matching key", configured: "secret", header: "secret", want: http.StatusOK},
		{name: "wrong key", configured: "secret", header: "guess", want: http.StatusUnauthorized},
		{name: "missing key", configured: "secret", want: http.StatusUnauthorized},
		{name: "no key configured", header: "secret", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.App.APIKey = tt.configured

			auth := middleware.NewAuthMiddleware(mocks.NewOtel(), cfg)

			req := httptest.NewRequest(http.MethodPost, "/v1/admin/fields", nil)
			if tt.header != "" {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.header)
			}

			rec := httptest.NewRecorder()
			auth.APIKey(http.HandlerFunc(ok)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuth_User(t *testing.T) {
	auth := middleware.NewAuthMiddleware(mocks.NewOtel(), &config.Config{})

	var user any

	handler := auth.User(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		user = r.Context().Value(constant.ContextKeyUserID)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.Header.Set(constant.RequestHeaderUserID, "user-42")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user-42", user)
}

func TestApp_RequestID(t *testing.T) {
	app := middleware.NewAppMiddleware(mocks.NewOtel(), &config.Config{}, cacheMocks.NewCache())

	var seen any

	handler := app.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = r.Context().Value(constant.ContextKeyRequestID)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, rec.Header().Get(constant.RequestHeaderRequestID))
	assert.Equal(t, rec.Header().Get(constant.RequestHeaderRequestID), seen)
}

func TestApp_RateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cacheMocks.NewCache())
	handler := app.RateLimit()(http.HandlerFunc(ok))

	codes := make([]int, 0, 3)

	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil).WithContext(context.Background())
		req.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestUUIDParam(t *testing.T) {
	router := chi.NewRouter()
	router.With(middleware.UUIDParam("id")).Get("/bookings/{id}", ok)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "uuid", path: "/bookings/7c9e6679-7425-40de-944b-e07fc1f90ae7", want: http.StatusOK},
		{name: "word", path: "/bookings/abc", want: http.StatusBadRequest},
		{name: "truncated uuid", path: "/bookings/7c9e6679-7425", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

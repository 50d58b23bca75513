package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"arena/infras/otel/mocks"
	"arena/internal/handlers/health"
)

func TestHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		checks map[string]health.Check
		want   int
	}{
		{name: "all reachable", checks: map[string]health.Check{"postgres": ok, "redis": ok}, want: http.StatusOK},
		{name: "redis down", checks: map[string]health.Check{"postgres": ok, "redis": down}, want: http.StatusServiceUnavailable},
		{name: "no checks", checks: map[string]health.Check{}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := health.WithChecks(tt.checks, mocks.NewOtel())

			rec := httptest.NewRecorder()
			handler.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

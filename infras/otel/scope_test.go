package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"arena/infras/otel"
	"arena/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "service.Booking.Create")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func attributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	return attrs
}

func TestScope_TraceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantKind   string
	}{
		{name: "slot unavailable", err: failure.SlotUnavailable("slot already booked"), wantStatus: codes.Unset, wantKind: "slot_unavailable"},
		{name: "storage", err: failure.Storage(errors.New("conn reset")), wantStatus: codes.Error, wantKind: "storage"},
		{name: "unclassified", err: errors.New("boom"), wantStatus: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := record(t, func(scope otel.Scope) {
				scope.TraceIfError(tt.err)
			})

			assert.Equal(t, tt.wantStatus, span.Status().Code)
			assert.Len(t, span.Events(), 1)

			kind, ok := attributes(span)["failure.kind"]
			if tt.wantKind == "" {
				assert.False(t, ok)

				return
			}

			assert.Equal(t, tt.wantKind, kind.AsString())
		})
	}
}

func TestScope_TraceIfError_Nil(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceIfError(nil)
	})

	assert.Equal(t, codes.Unset, span.Status().Code)
	assert.Empty(t, span.Events())
}

func TestScope_SetAttributes(t *testing.T) {
	date := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"booking.price":   int64(150000),
			"booking.date":    date,
			"booking.slots":   []string{"s-1", "s-2"},
			"booking.weekend": true,
		})
	})

	attrs := attributes(span)

	assert.Equal(t, int64(150000), attrs["booking.price"].AsInt64())
	assert.Equal(t, "2024-06-08T00:00:00Z", attrs["booking.date"].AsString())
	assert.Equal(t, []string{"s-1", "s-2"}, attrs["booking.slots"].AsStringSlice())
	assert.True(t, attrs["booking.weekend"].AsBool())
}

package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"arena/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("validation failed"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Message: "validation failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
			} else {
				f, ok := result.(*failure.Failure)
				if !ok {
					t.Errorf("expected result to be *failure.Failure, got %T", result)
				} else {
					expectedF := tt.expected.(*failure.Failure)
					if f.Code != expectedF.Code || f.Message != expectedF.Message {
						t.Errorf("expected %+v, got %+v", expectedF, f)
					}
				}
			}
		})
	}
}

func TestKindConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind failure.Kind
	}{
		{name: "validation", err: failure.Validation("bad"), code: http.StatusBadRequest, kind: failure.KindValidation},
		{name: "invalid transition", err: failure.InvalidTransition("bad"), code: http.StatusUnprocessableEntity, kind: failure.KindInvalidTransition},
		{name: "slot unavailable", err: failure.SlotUnavailable("taken"), code: http.StatusConflict, kind: failure.KindSlotUnavailable},
		{name: "conflict", err: failure.Conflict("dup"), code: http.StatusConflict, kind: failure.KindConflict},
		{name: "not found", err: failure.NotFound("missing"), code: http.StatusNotFound, kind: failure.KindNotFound},
		{name: "storage", err: failure.Storage(errors.New("conn reset")), code: http.StatusServiceUnavailable, kind: failure.KindStorage},
		{name: "unauthorized", err: failure.Unauthorized("no key"), code: http.StatusUnauthorized, kind: failure.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}

			if got := failure.GetKind(tt.err); got != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, got)
			}
		})
	}
}

func TestFailure_Is(t *testing.T) {
	wrapped := fmt.Errorf("failed to create booking: %w", failure.SlotUnavailable("slot already booked"))

	if !errors.Is(wrapped, failure.ErrSlotUnavailable) {
		t.Error("expected wrapped failure to match ErrSlotUnavailable")
	}

	if errors.Is(wrapped, failure.ErrConflict) {
		t.Error("expected slot unavailable not to match ErrConflict")
	}

	if !errors.Is(wrapped, failure.SlotUnavailable("slot already booked")) {
		t.Error("expected match on identical kind and message")
	}

	if errors.Is(wrapped, failure.SlotUnavailable("other")) {
		t.Error("expected no match on different message")
	}
}

func TestStorage(t *testing.T) {
	cause := errors.New("connection refused")
	err := failure.Storage(cause)

	if !errors.Is(err, cause) {
		t.Error("expected storage failure to unwrap to its cause")
	}

	if !failure.IsRetryable(err) {
		t.Error("expected storage failure to be retryable")
	}

	domainErr := failure.Conflict("post exists")
	if got := failure.Storage(domainErr); got != domainErr {
		t.Errorf("expected domain failure to pass through, got %v", got)
	}

	if failure.Storage(nil) != nil {
		t.Error("expected nil for nil error")
	}

	if failure.IsRetryable(failure.SlotUnavailable("taken")) {
		t.Error("expected slot unavailable not to be retryable")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("outer: %w", failure.NotFound("booking not found")),
			expected: http.StatusNotFound,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the transport code.
type Kind string

const (
	KindUnknown           Kind = ""
	KindValidation        Kind = "validation"
	KindInvalidTransition Kind = "invalid_transition"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindConflict          Kind = "conflict"
	KindNotFound          Kind = "not_found"
	KindStorage           Kind = "storage"
	KindUnauthorized      Kind = "unauthorized"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
	cause   error
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}

// Sentinels for errors.Is matching on kind only.
var (
	ErrValidation        = &Failure{Kind: KindValidation}
	ErrInvalidTransition = &Failure{Kind: KindInvalidTransition}
	ErrSlotUnavailable   = &Failure{Kind: KindSlotUnavailable}
	ErrConflict          = &Failure{Kind: KindConflict}
	ErrNotFound          = &Failure{Kind: KindNotFound}
	ErrStorage           = &Failure{Kind: KindStorage}
)

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

// Is matches another *Failure of the same kind. A target without a message matches any
// message of that kind.
func (e *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) || other.Kind == KindUnknown {
		return false
	}

	if e.Kind != other.Kind {
		return false
	}

	return other.Message == "" || other.Message == e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Validation is an alias of BadRequestFromString used by the domain services.
func Validation(msg string) error {
	return BadRequestFromString(msg)
}

// InvalidTransition reports a state machine violation.
func InvalidTransition(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidTransition,
		Message: msg,
	}
}

// SlotUnavailable reports a slot that is booked, locked or lost to a concurrent request.
func SlotUnavailable(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindSlotUnavailable,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// Storage wraps a transient infrastructure fault. Callers may retry these with backoff.
func Storage(err error) error {
	if err == nil {
		return nil
	}

	var fail *Failure
	if errors.As(err, &fail) && fail.Kind != KindUnknown {
		return err
	}

	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindStorage,
		Message: err.Error(),
		cause:   err,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) && fail.Code != 0 {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of an error interface.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindUnknown
}

// IsRetryable reports whether the caller may safely retry the operation.
func IsRetryable(err error) bool {
	return GetKind(err) == KindStorage
}

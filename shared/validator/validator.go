package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"arena/config"
	"arena/shared/constant"
	"arena/shared/failure"

	val "github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var (
	validate    *val.Validate
	phoneRegion string
)

func registerPhoneValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	return IsPhoneNumber(value)
}

func registerTimeOfDayValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := time.Parse(constant.TimeOfDayFormat, value)

	return err == nil
}

func init() {
	cfg := config.Get()

	phoneRegion = cfg.App.PhoneRegion
	if phoneRegion == "" {
		phoneRegion = "VN"
	}

	validate = val.New(val.WithRequiredStructEnabled())

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		empty := fl.Field().IsZero()

		return empty
	})
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("phone", registerPhoneValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("hhmm", registerTimeOfDayValidation)
	if err != nil {
		panic(err)
	}
}

// IsPhoneNumber reports whether value parses as a valid number, using the configured
// region for numbers written without a country code.
func IsPhoneNumber(value string) bool {
	number, err := phonenumbers.Parse(value, phoneRegion)
	if err != nil {
		return false
	}

	return phonenumbers.IsValidNumber(number)
}

// NormalizePhone formats a valid number as E.164, returning the input unchanged otherwise.
func NormalizePhone(value string) string {
	number, err := phonenumbers.Parse(value, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return value
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

// ValidateID rejects a path or query identifier that is not a UUID, naming it in the message.
func ValidateID(name, value string) error {
	if err := validate.Var(value, "required,uuid"); err != nil {
		return failure.BadRequestFromString(name + " must be a valid UUID") //nolint:wrapcheck
	}

	return nil
}

package validator

import (
	"errors"
	"fmt"
	"roomly/pkg/logger"
	"roomly/pkg/model"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger

	// graceWindow is how far in the past a booking may still start.
	graceWindow time.Duration
	now         func() time.Time
}

func NewBookingValidator(log *logger.Logger, graceWindow time.Duration) *BookingValidator {
	return &BookingValidator{
		validate:    validator.New(),
		logger:      log,
		graceWindow: graceWindow,
		now:         time.Now,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.ValidateInterval(booking.Interval())
}

// ValidateInterval applies the interval rules shared by create and
// reschedule: positive duration, and the start not further in the past
// than the grace window.
func (v *BookingValidator) ValidateInterval(iv model.Interval) error {
	if !iv.IsValid() {
		return ValidationErrors{
			ValidationError{
				Field:   "end_time",
				Message: "end_time must be after start_time",
			},
		}
	}

	if iv.Start.Before(v.now().Add(-v.graceWindow)) {
		return ValidationErrors{
			ValidationError{
				Field:   "start_time",
				Message: fmt.Sprintf("start_time is more than %s in the past", v.graceWindow),
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

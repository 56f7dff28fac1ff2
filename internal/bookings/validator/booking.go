package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
)

// BookingValidator wraps a validator instance with the calendar_date and
// clock_time tags the booking model uses.
type BookingValidator struct {
	validate *validator.Validate
}

func New() *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for a blank tag name.
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		return model.IsValidDate(fl.Field().String())
	})
	_ = v.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
		return model.IsValidClock(fl.Field().String())
	})

	return &BookingValidator{validate: v}
}

// ValidateBooking checks a complete booking document field by field.
// The cross-field window rule lives in ValidateWindow; the admission
// path runs the resource lookup between the two.
func (bv *BookingValidator) ValidateBooking(booking *model.Booking) error {
	if err := bv.validate.Struct(booking); err != nil {
		return toValidationError(err)
	}
	return nil
}

// ValidateWindow enforces that the booking window is non-empty.
func (bv *BookingValidator) ValidateWindow(booking *model.Booking) error {
	if booking.From >= booking.To {
		return apperrors.Validation("'from' must be earlier than 'to'", map[string]any{
			"from": booking.From,
			"to":   booking.To,
		})
	}
	return nil
}

// ValidateUpdate checks only the fields present in a patch. Cross-field
// rules are enforced later against the merged document.
func (bv *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := bv.validate.Struct(update); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("request payload is invalid", nil)
	}

	details := make(map[string]any, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = describeFailure(fieldErr)
	}

	return apperrors.Validation("request payload is invalid", details)
}

func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "calendar_date":
		return "must be a date in YYYY-MM-DD format"
	case "clock_time":
		return "must be a time in HH:MM format"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "mongodb":
		return "must be a valid object id"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

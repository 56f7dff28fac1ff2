package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
)

type ResourceValidator struct {
	validate *validator.Validate
}

func New() *ResourceValidator {
	return &ResourceValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (rv *ResourceValidator) ValidateResource(resource *model.Resource) error {
	err := rv.validate.Struct(resource)
	if err == nil {
		return nil
	}

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

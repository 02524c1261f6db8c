package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/pkg/apperror"
)

var validate = validator.New()

func init() {
	// uuid_required rejects the zero UUID, which "required" alone misses
	// because uuid.UUID is an array type.
	_ = validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// ValidateStruct validates a struct's `validate` tags and returns field
// errors suitable for the API error envelope. A nil return means valid.
func ValidateStruct(data interface{}) []apperror.FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperror.FieldError{{Field: "", Message: err.Error()}}
	}
	return fieldErrorsFrom(verrs)
}

// TranslateBindingError converts a gin binding failure into field errors.
// Returns nil when the error is not a validation error (e.g. malformed JSON),
// so the caller can fall back to a generic bad-request message.
func TranslateBindingError(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	return fieldErrorsFrom(verrs)
}

func fieldErrorsFrom(verrs validator.ValidationErrors) []apperror.FieldError {
	fieldErrors := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return fieldErrors
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "uuid_required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "lte":
		return "Must be less than or equal to " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

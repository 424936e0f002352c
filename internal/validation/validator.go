// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom validation
// rules for the evaluation domain enums.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/skillzio/evaluation-service/internal/domain"
)

var validate = validator.New()

// init registers custom validation rules with the validator instance.
func init() {
	// skill_status validates a skill attainment value against the enum
	// domain. Empty strings are left to the 'required' tag.
	err := validate.RegisterValidation("skill_status", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}

		return domain.StatusValue(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}

	// evaluation_status validates a lifecycle status value.
	err = validate.RegisterValidation("evaluation_status", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}

		return domain.EvaluationStatus(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// ValidationError is a custom error type that holds a slice of validation
// error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its
// validation tags. If validation fails, it returns a *ValidationError with
// user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "skill_status":
				message = fmt.Sprintf(
					"field '%s' must be one of ATTAINED, NOT_ATTAINED, FEEDBACK_REQUESTED, OBJECTIVE",
					err.Field(),
				)
			case "evaluation_status":
				message = fmt.Sprintf(
					"field '%s' must be a valid evaluation status",
					err.Field(),
				)
			default:
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

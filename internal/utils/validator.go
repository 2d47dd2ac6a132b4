// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("birth_date", validateBirthDate)
	validate.RegisterValidation("applicant_code", validateApplicantCode)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

var birthDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func validateBirthDate(fl validator.FieldLevel) bool {
	return birthDatePattern.MatchString(fl.Field().String())
}

func validateApplicantCode(fl validator.FieldLevel) bool {
	return ValidApplicantCode(fl.Field().String())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "birth_date":
		return "Birth date must use the YYYY-MM-DD format"
	case "applicant_code":
		return "Applicant code must use the YYYY_MM_NNNNNN format"
	default:
		return e.Field() + " is invalid"
	}
}

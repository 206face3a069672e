// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9]{3,15}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("phone", validatePhone)
	validate.RegisterValidation("role", validateRole)
	validate.RegisterValidation("quality", validateQuality)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "farmer", "distributor", "retailer":
		return true
	}
	return false
}

func validateQuality(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Premium", "Grade A", "Grade B", "Standard":
		return true
	}
	return false
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
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "phone":
		return "Phone number must contain 3-15 digits with an optional leading +"
	case "role":
		return "Role must be one of farmer, distributor, or retailer"
	case "quality":
		return "Quality must be one of Premium, Grade A, Grade B, or Standard"
	default:
		return e.Field() + " is invalid"
	}
}

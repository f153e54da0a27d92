package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the names clients send.
var FieldLabels = map[string]string{
	"Name":            "name",
	"Email":           "email",
	"PhoneNumber":     "phoneNumber",
	"Password":        "password",
	"Role":            "role",
	"Bio":             "bio",
	"Skills":          "skills",
	"Title":           "title",
	"Description":     "description",
	"Requirements":    "requirements",
	"Salary":          "salary",
	"Location":        "location",
	"JobType":         "jobType",
	"ExperienceLevel": "experience",
	"Positions":       "position",
	"CompanyID":       "companyId",
	"Website":         "website",
}

// FormatValidationErrors converts validator errors to one readable message per field.
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()
	isString := e.Kind().String() == "string"

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "phone10":
		return fmt.Sprintf("%s must be a 10-digit number", label)
	case "website":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	if fieldName == "" {
		return fieldName
	}
	return strings.ToLower(fieldName[:1]) + fieldName[1:]
}

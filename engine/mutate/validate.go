package mutate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fieldnet/fieldnet/engine/transport"
)

var (
	defaultValidator     *validator.Validate
	defaultValidatorOnce sync.Once
)

// Validator returns the payload validator shared by every mutation. Field
// names in reported errors use the json tag.
func Validator() *validator.Validate {
	defaultValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		defaultValidator = v
	})
	return defaultValidator
}

// validatePayload returns a *transport.ValidationError for tag failures and
// nil for payloads that are not structs.
func validatePayload(v *validator.Validate, payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate payload: %w", err)
	}
	fields := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	return &transport.ValidationError{Fields: fields, Cause: err}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	case "gte", "lte", "gt", "lt":
		return fmt.Sprintf("Must be %s %s.", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("Failed the %q check.", fe.Tag())
	}
}

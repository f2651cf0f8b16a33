// Package validate wraps go-playground/validator and turns its errors into
// apperror validation errors keyed by JSON field name.
//
// Struct tags on the model types declare the per-field rules. The domain
// rules (experience buckets, platforms, HH:MM times and so on) are
// registered in rules.go.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/agency-backoffice/internal/apperror"
)

// Validator is the application's wrapper over go-playground/validator.
// It is safe for concurrent use; build one at startup and share it.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the domain rules registered.
//
// RegisterTagNameFunc makes FieldError.Field() return the JSON name
// ("first_name") instead of the Go name ("FirstName"), so error details line
// up with what the client sent.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := registerRules(v); err != nil {
		// Rule registration only fails on a programming error (bad tag name).
		panic(fmt.Sprintf("validate: registering rules: %v", err))
	}

	return &Validator{validate: v}
}

// Struct validates s and returns an *apperror.AppError carrying one message
// per failing field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate: %w", err)
	}

	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		if _, seen := details[field]; seen {
			continue
		}
		details[field] = message(fe)
	}
	return apperror.Invalid(details)
}

// message renders a FieldError as a short human-readable sentence.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s entries", fe.Param())
		}
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		if msg, ok := ruleMessages[fe.Tag()]; ok {
			return msg
		}
		return fmt.Sprintf("invalid value (failed on '%s')", fe.Tag())
	}
}

func isLengthKind(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map
}

// Package validation provides request validation utilities using the
// validator/v10 library.
package validation

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/episodeo/episodeo-server/internal/domain"
	domainerrors "github.com/episodeo/episodeo-server/internal/errors"
)

var shareCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain. It registers two
// custom tags: "watchstatus" (a persistable status value) and "sharecode"
// (6 uppercase alphanumerics).
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// Registration only fails for empty tag names.
	_ = v.RegisterValidation("watchstatus", func(fl validator.FieldLevel) bool {
		return domain.WatchStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("sharecode", func(fl validator.FieldLevel) bool {
		return shareCodePattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error with
// per-field messages on failure.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// First failing field is enough for a user-facing message.
	fe := validationErrs[0]
	return domainerrors.Validation(friendlyMessage(fe))
}

// friendlyMessage converts a field error into a short human-readable message.
func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "watchstatus":
		return fmt.Sprintf("%s must be one of pending, watching, completed, dropped", fe.Field())
	case "sharecode":
		return fmt.Sprintf("%s must be 6 uppercase letters or digits", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Package validate runs caller-side input checks before any container or
// remote call. Rules are expressed as `validate` struct tags.
package validate

import (
	"errors"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"

	apperrors "nebibs/internal/platform/errors"
)

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("nonblank", nonBlank); err != nil {
		panic("validate: nonblank registration failed: " + err.Error())
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		panic("validate: isodate registration failed: " + err.Error())
	}
}

// nonBlank rejects empty and whitespace-only strings.
func nonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isoDate accepts a YYYY-MM-DD calendar date.
func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) == 10 && strfmt.IsDate(s)
}

// Struct validates s and converts failures into *apperrors.ValidationError.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "input", Rule: err.Error()}}}
	}
	out := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.Fields = append(out.Fields, apperrors.FieldError{Field: fe.Field(), Rule: rule})
	}
	return out
}

// Package validation validates decoded request bodies with validator/v10.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"feedbackboard/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator and reports failures as apperr.Validation.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// report JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("invalid request").WithCause(err)
	}

	fields := make(map[string]string, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := describe(fe)
		fields[fe.Field()] = msg
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), msg))
	}
	return apperr.Validation(strings.Join(msgs, "; ")).WithDetails(fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a valid URL"
	case "hexcolor":
		return "must be a hex color"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

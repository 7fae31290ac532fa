// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks request DTOs against their `validate` tags. Field names
// in errors follow the json or form tag so they match what the client sent.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator. Modules add their own rules with RegisterValidation.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// RegisterValidation registers a rule usable as a tag.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// StringRule adapts a predicate over a string field into a validator.Func.
// Pointer fields are dereferenced by the validator before the rule runs.
func StringRule(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	}
}

// FieldErrors maps each failing field to the rule it broke. It returns nil
// when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Package validation turns request bodies into typed values or field-level errors.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// maxBodyBytes bounds request bodies read by DecodeJSON
const maxBodyBytes = 1 << 20

// Validator checks decoded bodies against their struct tags
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their JSON names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns a *domain.Error listing every failing field
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid(domain.FieldError{Field: "body", Message: err.Error()})
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return domain.Invalid(fields...)
}

// DecodeJSON decodes one JSON object from r into dst. Type mismatches are
// reported against the offending field.
func (val *Validator) DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var syntaxErr *json.SyntaxError
		switch {
		case errors.As(err, &typeErr):
			field := typeErr.Field
			if field == "" {
				field = "body"
			}
			return domain.Invalid(domain.FieldError{Field: field, Message: typeMessage(typeErr.Type)})
		case errors.As(err, &syntaxErr):
			return domain.Invalid(domain.FieldError{Field: "body", Message: "malformed JSON"})
		case errors.Is(err, io.EOF):
			return domain.Invalid(domain.FieldError{Field: "body", Message: "request body is required"})
		default:
			return domain.Invalid(domain.FieldError{Field: "body", Message: err.Error()})
		}
	}
	return nil
}

// Decode decodes and validates in one step
func (val *Validator) Decode(r io.Reader, dst any) error {
	if err := val.DecodeJSON(r, dst); err != nil {
		return err
	}
	return val.Struct(dst)
}

func typeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Slice:
		return "must be an array"
	case reflect.Bool:
		return "must be a boolean"
	default:
		return "has an invalid type"
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must be a positive number"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be an RFC 3339 timestamp"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

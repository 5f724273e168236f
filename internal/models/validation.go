package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var clockTimePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// FieldViolation is one rule a payload field failed.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload. It is always a
// client error.
type ValidationError struct {
	Violations []FieldViolation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SchemaValidator checks event and auth payloads. Category membership is
// checked against a single domain and date rules against the given clock.
type SchemaValidator struct {
	validate *validator.Validate
	domain   CategoryDomain
	now      func() time.Time
}

func NewSchemaValidator(domain CategoryDomain, now func() time.Time) *SchemaValidator {
	if now == nil {
		now = time.Now
	}
	sv := &SchemaValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		domain:   domain,
		now:      now,
	}

	sv.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = sv.validate.RegisterValidation("event_date", func(fl validator.FieldLevel) bool {
		t, err := ParseEventDate(fl.Field().String())
		if err != nil {
			return false
		}
		return t.After(sv.now())
	})
	_ = sv.validate.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
		return clockTimePattern.MatchString(fl.Field().String())
	})
	_ = sv.validate.RegisterValidation("event_category", func(fl validator.FieldLevel) bool {
		return sv.domain.Contains(fl.Field().String())
	})

	return sv
}

func (sv *SchemaValidator) Domain() CategoryDomain {
	return sv.domain
}

// ValidateEvent normalizes and checks a full create payload.
func (sv *SchemaValidator) ValidateEvent(in *EventInput) error {
	if in == nil {
		return NewValidationError("body", "request body is required")
	}
	in.normalize()
	if err := sv.Struct(in); err != nil {
		return err
	}
	in.Date = normalizeDate(in.Date)
	return nil
}

// ValidatePatch checks only the fields present in a partial update.
func (sv *SchemaValidator) ValidatePatch(p *EventPatch) error {
	if p == nil {
		return NewValidationError("body", "request body is required")
	}
	p.normalize()
	if err := sv.Struct(p); err != nil {
		return err
	}
	if p.Date != nil {
		d := normalizeDate(*p.Date)
		p.Date = &d
	}
	return nil
}

// Struct validates any tagged payload and converts failures into a
// *ValidationError.
func (sv *SchemaValidator) Struct(v interface{}) error {
	err := sv.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validator: %w", err)
	}

	out := &ValidationError{Violations: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Message: sv.message(fe),
		})
	}
	return out
}

func (sv *SchemaValidator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return "passwords do not match"
	case "event_date":
		return "must be a valid date in the future"
	case "clock_time":
		return "must be a 24-hour time formatted HH:MM"
	case "event_category":
		return "must be one of: " + sv.domain.String()
	default:
		return "failed validation: " + fe.Tag()
	}
}

// ParseEventDate accepts a calendar date (YYYY-MM-DD, read as UTC midnight)
// or a full RFC 3339 timestamp.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func normalizeDate(s string) string {
	t, err := ParseEventDate(s)
	if err != nil {
		return s
	}
	return t.UTC().Format(DateLayout)
}

// DecodeViolation turns a JSON body decoding failure into a client-facing
// validation error.
func DecodeViolation(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return NewValidationError("body", "request body is required")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return NewValidationError(field, "must be of type "+jsonTypeName(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return NewValidationError("body", "malformed JSON")
	default:
		return NewValidationError("body", "invalid request body")
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}

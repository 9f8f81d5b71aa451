package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// ParseDate accepts a calendar date (2006-01-02) or a full RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// MustParseDate is for values already checked by the "date" tag.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("unvalidated date %q", s))
	}
	return t
}

// ParseBody decodes the JSON body into out, rejecting unknown and mistyped fields,
// then validates it. When message is given it replaces the per-field summary in
// the error, and the per-field messages move to details.
func ParseBody(c *fiber.Ctx, out interface{}, message ...string) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return ValidationError("Invalid request body: " + describeDecodeError(err))
		}
		if dec.More() {
			return ValidationError("Invalid request body: trailing data after JSON value")
		}
	}
	return ValidateStruct(out, message...)
}

// ValidateStruct runs the struct validation tags on v.
func ValidateStruct(v interface{}, message ...string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationError("Invalid request body: " + err.Error())
	}

	details := make(map[string]string, len(verrs))
	var first string
	for _, fe := range verrs {
		field := fieldPath(fe)
		msg := fieldMessage(field, fe)
		details[field] = msg
		if first == "" {
			first = msg
		}
	}
	if len(message) > 0 && message[0] != "" {
		return ValidationError(message[0], details)
	}
	return ValidationError(first, details)
}

// fieldPath drops the struct name from the namespace: "in.attachments[0].fileUrl" -> "attachments[0].fileUrl".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required.", field)
	case "email":
		return fmt.Sprintf("Field '%s' must be a valid email address.", field)
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of: %s.", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("Field '%s' must be greater than or equal to %s.", field, fe.Param())
	case "date":
		return fmt.Sprintf("Field '%s' must be a date (YYYY-MM-DD or RFC3339).", field)
	case "url":
		return fmt.Sprintf("Field '%s' must be a valid URL.", field)
	default:
		return fmt.Sprintf("Field '%s' failed validation: %s.", field, fe.Tag())
	}
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field '%s' has the wrong type", typeErr.Field)
	case errors.As(err, &syntaxErr):
		return "malformed JSON"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed JSON"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return err.Error()
	}
}

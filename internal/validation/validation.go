// Package validation adapts struct-tag schema validation into the Result
// contract. A failed parse or validation becomes a ValidationError carrying a
// per-field detail list, before any business code runs.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/result"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldIssue is one entry of a ValidationError's details list.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Struct validates v against its `validate` tags, returning Ok(v) or a
// ValidationError whose details enumerate every failing field.
func Struct[T any](v T) result.Result[T] {
	if err := validate.Struct(v); err != nil {
		return result.Err[T](toValidationError(err))
	}
	return result.Ok(v)
}

// Var validates a single value against a tag expression, e.g. "required,uuid4".
func Var[T any](v T, field, tag string) result.Result[T] {
	if err := validate.Var(v, tag); err != nil {
		ve := toValidationError(err)
		ve.Field = field
		return result.Err[T](ve)
	}
	return result.Ok(v)
}

// DecodeAndValidate parses a JSON body into T and validates it. Malformed
// JSON is a ValidationError; the handler body never sees a half-parsed value.
func DecodeAndValidate[T any](body io.Reader) result.Result[T] {
	var v T
	dec := json.NewDecoder(body)
	if err := dec.Decode(&v); err != nil {
		return result.Err[T](apperror.Validation("Failed to parse request body", "").WithDetails(err.Error()))
	}
	return Struct(v)
}

func toValidationError(err error) *apperror.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("Validation failed", "").WithDetails(err.Error())
	}

	issues := make([]FieldIssue, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		issue := FieldIssue{
			Field:   fieldPath(fe),
			Message: issueMessage(fe),
			Code:    fe.Tag(),
		}
		issues = append(issues, issue)
		msgs = append(msgs, issue.Message)
	}

	ve := apperror.Validation("Validation failed: "+strings.Join(msgs, ", "), "")
	return ve.WithDetails(issues)
}

func fieldPath(fe validator.FieldError) string {
	// Namespace is "Type.Field.Sub"; drop the root type for readability.
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "uuid4", "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}

// Package apierrors holds the domain failures surfaced by the API and the
// bodies they are rendered as.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the closed set of failure families a request can end in.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindAlreadyExists
	KindValidation
)

// Status returns the HTTP status bound to the kind.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

const unexpectedMessage = "Internal server error"

// ErrorResponse is the body of identified errors.
type ErrorResponse struct {
	Identifier string `json:"identifier,omitempty"`
	Message    string `json:"message"`
}

// ValidationErrorResponse is the body of validation failures.
type ValidationErrorResponse struct {
	Message string      `json:"message"`
	Errors  []Violation `json:"errors"`
}

// EntityError is a failure about an entity uniquely identified by Identifier.
type EntityError struct {
	Kind       Kind
	Identifier string
	Message    string
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Identifier)
}

// NotFound reports that the entity does not exist.
func NotFound(identifier string) *EntityError {
	return &EntityError{Kind: KindNotFound, Identifier: identifier, Message: "The entity does not exist"}
}

// PersonNotFound reports that the person does not exist.
func PersonNotFound(identifier string) *EntityError {
	return &EntityError{Kind: KindNotFound, Identifier: identifier, Message: "The person does not exist"}
}

// PersonAlreadyExists reports that a person being created already exists.
func PersonAlreadyExists(identifier string) *EntityError {
	return &EntityError{Kind: KindAlreadyExists, Identifier: identifier, Message: "The person already exists"}
}

// IsNotFound reports whether err is, or wraps, a not found failure.
func IsNotFound(err error) bool {
	var entityErr *EntityError
	return errors.As(err, &entityErr) && entityErr.Kind == KindNotFound
}

// Violation is a single failed constraint on an input field. Field is the
// dotted path of the field, e.g. "address.zip_code".
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every violated constraint of a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// OrNil returns nil when nothing was violated, so callers can return it as
// an error directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

// KindOf classifies err. Anything not produced by this package is unexpected.
func KindOf(err error) Kind {
	var entityErr *EntityError
	if errors.As(err, &entityErr) {
		return entityErr.Kind
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	return KindUnexpected
}

// Render maps err to its status code and response body. Unexpected errors
// never expose their detail.
func Render(err error) (int, interface{}) {
	var entityErr *EntityError
	if errors.As(err, &entityErr) {
		return entityErr.Kind.Status(), ErrorResponse{
			Identifier: entityErr.Identifier,
			Message:    entityErr.Message,
		}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message: "Validation error",
			Errors:  validationErr.Violations,
		}
	}

	return http.StatusInternalServerError, ErrorResponse{Message: unexpectedMessage}
}

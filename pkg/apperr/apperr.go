// Package apperr defines the error kinds shared by the stores, the invoice
// aggregate and the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed or out-of-range input for a single field.
type ValidationError struct {
	Field   string
	Type    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing or inactive referenced entity.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a mutation that the current state does not allow.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Reason == "" {
		return e.Resource + " conflict"
	}
	return e.Resource + ": " + e.Reason
}

// StoreError wraps persistence failures. Its text is never sent to clients.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Type: "value_error", Message: message}
}

func Missing(field string) error {
	return &ValidationError{Field: field, Type: "missing", Message: "field required"}
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Conflict(resource, reason string) error {
	return &ConflictError{Resource: resource, Reason: reason}
}

// Store wraps err as a StoreError unless it already carries a kind.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != "" {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// Kind returns the category string used in error responses, or "" when err
// is not one of the known kinds.
func Kind(err error) string {
	var (
		vErr *ValidationError
		nErr *NotFoundError
		cErr *ConflictError
		sErr *StoreError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return "validation_error"
	case errors.As(err, &nErr):
		return "not_found"
	case errors.As(err, &cErr):
		return "conflict"
	case errors.As(err, &sErr):
		return "store_error"
	default:
		return ""
	}
}

func IsNotFound(err error) bool {
	var nErr *NotFoundError
	return errors.As(err, &nErr)
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsConflict(err error) bool {
	var cErr *ConflictError
	return errors.As(err, &cErr)
}

// FieldOf returns the offending field of a ValidationError.
func FieldOf(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return strings.TrimSpace(vErr.Field)
	}
	return ""
}

// Nest prefixes the field of a ValidationError, e.g. items[2].quantity.
// Other errors are returned unchanged.
func Nest(err error, prefix string) error {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return err
	}
	nested := *vErr
	if nested.Field == "" {
		nested.Field = prefix
	} else {
		nested.Field = prefix + "." + nested.Field
	}
	return &nested
}

package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for any id/tenant lookup that does not resolve to a
// visible record. Absent, soft-deleted and foreign-tenant rows all look the same.
var ErrNotFound = errors.New("not found")

var (
	ErrValidation = errors.New("validation failed")
	ErrConstraint = errors.New("constraint violation")
	// ErrAccessDenied marks an upstream that rejected our credentials.
	ErrAccessDenied = errors.New("access denied")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConstraintError wraps a uniqueness or referential violation reported by the store.
type ConstraintError struct {
	Constraint string // unique | foreign_key
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }
func (e *ConstraintError) Unwrap() error        { return e.Err }

// StoreError is the catch-all for driver and connection failures.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports bad input: negative quantities, missing reasons,
// decreases exceeding stock, malformed compositions. All violations found
// before the first mutation are collected into Reasons.
type ValidationError struct {
	Reasons []string
}

func NewValidation(reasons ...string) *ValidationError {
	return &ValidationError{Reasons: reasons}
}

func (e *ValidationError) Error() string {
	if len(e.Reasons) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// NotFoundError reports an unknown material, batch or composite id.
type NotFoundError struct {
	Entity string
	Ref    string
}

func NewNotFound(entity string, ref interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, Ref: fmt.Sprintf("%v", ref)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

// ConflictError reports an operation that does not apply to the material's
// kind: structural composition violations, or simple-material operations
// invoked on a composite and vice versa.
type ConflictError struct {
	Reason string
}

func NewConflict(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// ComponentFailure is one failed component update within a composite fan-out.
type ComponentFailure struct {
	MaterialID uint
	Code       string
	Err        error
}

// PartialFailure reports a composite fan-out where some component updates
// failed after validation passed. Callers retry only the failed components.
type PartialFailure struct {
	SuccessCount int
	ErrorCount   int
	Failures     []ComponentFailure
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure: %d succeeded, %d failed", e.SuccessCount, e.ErrorCount)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var v *ConflictError
	return errors.As(err, &v)
}

func IsPartialFailure(err error) bool {
	var v *PartialFailure
	return errors.As(err, &v)
}

package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConflict            = errors.New("conflict")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("transition is invalid")
	ErrObjectAlreadyExists = errors.New("object already exists")
)

// ConflictError reports that the stored state no longer matches the state a
// write was prepared against.
type ConflictError struct {
	ParamName string
	Expected  any
	Actual    any
	Cause     error
}

func NewConflictError(paramName string, expected, actual any) *ConflictError {
	return &ConflictError{ParamName: paramName, Expected: expected, Actual: actual}
}

func NewConflictErrorWithCause(paramName string, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Expected == nil && e.Actual == nil {
		return withCause(fmt.Sprintf("%s: %s", ErrConflict, e.ParamName), e.Cause)
	}
	msg := fmt.Sprintf("%s: %s is %s, required %s",
		ErrConflict, e.ParamName, sanitize(e.Actual), sanitize(e.Expected))
	return withCause(msg, e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ObjectAlreadyExistsError reports a duplicate identity. It also matches ErrConflict.
type ObjectAlreadyExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectAlreadyExistsError(paramName string, id any) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id}
}

func NewObjectAlreadyExistsErrorWithCause(paramName string, id any, cause error) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectAlreadyExistsError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrObjectAlreadyExists, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ObjectAlreadyExistsError) Unwrap() []error {
	return []error{ErrObjectAlreadyExists, ErrConflict}
}

// ForbiddenError reports an actor whose role does not permit the operation.
type ForbiddenError struct {
	Actor    string
	Role     any
	Required any
}

func NewForbiddenError(actor string, role, required any) *ForbiddenError {
	return &ForbiddenError{Actor: actor, Role: role, Required: required}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s has role %s, required %s",
		ErrForbidden, e.Actor, sanitize(e.Role), sanitize(e.Required))
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// InvalidTransitionError reports a target status that cannot be reached by any transition.
type InvalidTransitionError struct {
	Target any
}

func NewInvalidTransitionError(target any) *InvalidTransitionError {
	return &InvalidTransitionError{Target: target}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s has no predecessor", ErrInvalidTransition, sanitize(e.Target))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

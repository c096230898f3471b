// Package guard provides a marker that tells constructed values apart from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into commands, queries and value objects that must only
// be built through their New* function. A zero-value guard fails validation.
//
// Example:
//
//	type ListOrdersQuery struct {
//	    tenantID string
//	    guard    guard.ConstructorGuard
//	}
//
//	func (q ListOrdersQuery) Validate() error {
//	    return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns validationError,
// or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}

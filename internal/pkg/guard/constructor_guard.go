// Package guard provides a lightweight mechanism for enforcing constructor usage
// on domain objects. A zero-value struct containing a ConstructorGuard fails
// validation, so objects can only be considered valid when built through their
// constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no custom error is
// supplied and the guarded object was not created through its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed.
// Embed it (or include it as a field) in a domain object and initialize it with
// NewConstructorGuard inside the constructor. The zero value is "not constructed".
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard returns a guard in the "constructed" state.
// Call it only from inside the owning object's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for a properly constructed guard.
// For a zero-value guard it returns notConstructedErr, or
// ErrDefaultConstructorGuard when notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.constructed {
		return nil
	}
	if notConstructedErr == nil {
		return ErrDefaultConstructorGuard
	}
	return notConstructedErr
}

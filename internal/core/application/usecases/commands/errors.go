package commands

import (
	"errors"
	"fmt"
	"strings"

	"lastmile/internal/core/domain/services"
)

// ErrTransitionIsNotAllowed classifies precondition failures reported by the
// transition validator.
var ErrTransitionIsNotAllowed = errors.New("transition is not allowed")

// InvalidTransitionError carries the field-tagged violations of a rejected
// transition so the transport layer can surface them individually.
type InvalidTransitionError struct {
	Violations []services.Violation
}

func (e *InvalidTransitionError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("%s: %s", ErrTransitionIsNotAllowed, strings.Join(parts, "; "))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrTransitionIsNotAllowed
}

package order

import (
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/status"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrInvalidTransition classifies every rejected checkpoint change.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrStatusAlreadyCurrent is returned when the target checkpoint equals the
	// order's current one. The call is rejected and no history entry is written.
	ErrStatusAlreadyCurrent = errors.New("status is already current")

	// ErrOrderIsFinished is returned on forward transitions against an order in
	// a terminal checkpoint.
	ErrOrderIsFinished = errors.New("order is in a terminal status")

	// ErrOrderAlreadyDelivered is returned when restore is attempted on an order
	// whose delivery status is is_delivered.
	ErrOrderAlreadyDelivered = errors.New("order is already delivered")

	// ErrOrderIsArchived guards mutations of archived orders.
	ErrOrderIsArchived = errors.New("order is archived")

	// ErrHistoryIsEmpty is returned when a rollback would leave the order
	// without any history entry.
	ErrHistoryIsEmpty = errors.New("rollback would leave empty history")
)

// StatusNotInGraphError reports a target checkpoint that is not a step of the
// order's delivery graph.
type StatusNotInGraphError struct {
	Target status.Slug
}

func (e *StatusNotInGraphError) Error() string {
	return fmt.Sprintf("%s: status %q is not in the order's delivery graph", ErrInvalidTransition, e.Target)
}

func (e *StatusNotInGraphError) Unwrap() error {
	return ErrInvalidTransition
}

// StatusAfterError reports a violated "after" dependency: Missing must appear
// in the order's history before Target may be applied.
type StatusAfterError struct {
	Target  status.Slug
	Missing status.Slug
}

func (e *StatusAfterError) Error() string {
	return fmt.Sprintf("%s: status %q requires %q in history", ErrInvalidTransition, e.Target, e.Missing)
}

func (e *StatusAfterError) Unwrap() error {
	return ErrInvalidTransition
}

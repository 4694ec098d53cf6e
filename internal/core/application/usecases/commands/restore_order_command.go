package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrRestoreOrderCommandIsNotConstructed = errors.New(
	"RestoreOrderCommand must be created via NewRestoreOrderCommand constructor",
)

// RestoreOrderCommand represents a request to reopen an order back to its
// initial checkpoint.
type RestoreOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actorID   kernel.UUID
	actorRole string

	guard guard.ConstructorGuard
}

// NewRestoreOrderCommand creates a command to restore an order.
func NewRestoreOrderCommand(orderID, actorID kernel.UUID, actorRole string) (RestoreOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return RestoreOrderCommand{}, err
	}

	return RestoreOrderCommand{
		orderID:   orderID,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RestoreOrderCommand) Validate() error {
	return c.guard.Validate(ErrRestoreOrderCommandIsNotConstructed)
}

// OrderID returns the order to restore.
func (c RestoreOrderCommand) OrderID() kernel.UUID { return c.orderID }

// ActorID returns who requested the restore.
func (c RestoreOrderCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c RestoreOrderCommand) ActorRole() string { return c.actorRole }

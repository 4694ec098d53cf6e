package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand represents a direct assignment of one order to a
// specific courier, bypassing distribution.
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	actorID   kernel.UUID
	actorRole string

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand creates a direct assignment command.
func NewAssignCourierCommand(
	orderID, courierID, actorID kernel.UUID,
	actorRole string,
) (AssignCourierCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate(), actorID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		orderID:   orderID,
		courierID: courierID,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignCourierCommand) OrderID() kernel.UUID { return c.orderID }

// CourierID returns the courier taking the order.
func (c AssignCourierCommand) CourierID() kernel.UUID { return c.courierID }

// ActorID returns who requested the assignment.
func (c AssignCourierCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c AssignCourierCommand) ActorRole() string { return c.actorRole }

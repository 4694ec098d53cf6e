package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrRollbackStatusCommandIsNotConstructed = errors.New(
	"RollbackStatusCommand must be created via NewRollbackStatusCommand constructor",
)

// RollbackStatusCommand represents a request to rewind an order's history to
// a named checkpoint. With inclusive set the named entry itself is removed.
type RollbackStatusCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	statusSlug status.Slug
	inclusive  bool
	actorID    kernel.UUID
	actorRole  string

	guard guard.ConstructorGuard
}

// NewRollbackStatusCommand creates a command to roll back an order's history.
func NewRollbackStatusCommand(
	orderID kernel.UUID,
	statusSlug status.Slug,
	inclusive bool,
	actorID kernel.UUID,
	actorRole string,
) (RollbackStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return RollbackStatusCommand{}, err
	}
	if statusSlug == "" {
		return RollbackStatusCommand{}, errs.NewValueIsRequiredError("statusSlug")
	}

	return RollbackStatusCommand{
		orderID:    orderID,
		statusSlug: statusSlug,
		inclusive:  inclusive,
		actorID:    actorID,
		actorRole:  actorRole,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RollbackStatusCommand) Validate() error {
	return c.guard.Validate(ErrRollbackStatusCommandIsNotConstructed)
}

// OrderID returns the order to roll back.
func (c RollbackStatusCommand) OrderID() kernel.UUID { return c.orderID }

// StatusSlug returns the checkpoint to rewind to.
func (c RollbackStatusCommand) StatusSlug() status.Slug { return c.statusSlug }

// Inclusive reports whether the named entry is removed as well.
func (c RollbackStatusCommand) Inclusive() bool { return c.inclusive }

// ActorID returns who requested the rollback.
func (c RollbackStatusCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c RollbackStatusCommand) ActorRole() string { return c.actorRole }

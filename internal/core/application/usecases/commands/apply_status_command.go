package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrApplyStatusCommandIsNotConstructed = errors.New(
	"ApplyStatusCommand must be created via NewApplyStatusCommand constructor",
)

// ApplyStatusCommand represents a request to move an order to a target
// checkpoint on behalf of an actor.
type ApplyStatusCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	statusSlug status.Slug
	actorID    kernel.UUID
	actorRole  string

	guard guard.ConstructorGuard
}

// NewApplyStatusCommand creates a command to apply a checkpoint transition.
func NewApplyStatusCommand(
	orderID kernel.UUID,
	statusSlug status.Slug,
	actorID kernel.UUID,
	actorRole string,
) (ApplyStatusCommand, error) {
	cmd := ApplyStatusCommand{
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatusSlug(statusSlug),
		cmd.setActorID(actorID),
	); err != nil {
		return ApplyStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyStatusCommand) Validate() error {
	return c.guard.Validate(ErrApplyStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ApplyStatusCommand) OrderID() kernel.UUID { return c.orderID }

// StatusSlug returns the target checkpoint.
func (c ApplyStatusCommand) StatusSlug() status.Slug { return c.statusSlug }

// ActorID returns who requested the transition.
func (c ApplyStatusCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c ApplyStatusCommand) ActorRole() string { return c.actorRole }

func (c *ApplyStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ApplyStatusCommand) setStatusSlug(slug status.Slug) error {
	if slug == "" {
		return errs.NewValueIsRequiredError("statusSlug")
	}
	c.statusSlug = slug
	return nil
}

func (c *ApplyStatusCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}

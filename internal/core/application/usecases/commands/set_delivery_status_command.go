package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrSetDeliveryStatusCommandIsNotConstructed = errors.New(
	"SetDeliveryStatusCommand must be created via its constructors",
)

// SetDeliveryStatusCommand represents a request to change an order's
// exception track: postpone, cancel, mark non-contact, finalize, or resume
// normal processing when no value is given.
type SetDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	value     *order.DeliveryStatusValue
	reason    string
	comment   string
	actorID   kernel.UUID
	actorRole string

	guard guard.ConstructorGuard
}

// NewSetDeliveryStatusCommand creates a command to set an exception value.
func NewSetDeliveryStatusCommand(
	orderID kernel.UUID,
	value order.DeliveryStatusValue,
	reason, comment string,
	actorID kernel.UUID,
	actorRole string,
) (SetDeliveryStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return SetDeliveryStatusCommand{}, err
	}
	if !value.IsValid() {
		return SetDeliveryStatusCommand{}, errs.NewValueIsInvalidError("delivery status " + string(value))
	}

	return SetDeliveryStatusCommand{
		orderID:   orderID,
		value:     &value,
		reason:    reason,
		comment:   comment,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewResumeDeliveryCommand creates a command that clears the exception track,
// returning the order to normal processing.
func NewResumeDeliveryCommand(orderID, actorID kernel.UUID, actorRole string) (SetDeliveryStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return SetDeliveryStatusCommand{}, err
	}

	return SetDeliveryStatusCommand{
		orderID:   orderID,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c SetDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetDeliveryStatusCommandIsNotConstructed)
}

// OrderID returns the order to update.
func (c SetDeliveryStatusCommand) OrderID() kernel.UUID { return c.orderID }

// Value returns the exception value to set, or nil for a resume.
func (c SetDeliveryStatusCommand) Value() *order.DeliveryStatusValue { return c.value }

// Reason returns the operator-supplied reason code.
func (c SetDeliveryStatusCommand) Reason() string { return c.reason }

// Comment returns the free-form comment.
func (c SetDeliveryStatusCommand) Comment() string { return c.comment }

// ActorID returns who requested the change.
func (c SetDeliveryStatusCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c SetDeliveryStatusCommand) ActorRole() string { return c.actorRole }

package commands

import (
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrDistributeSelectedOrdersCommandIsNotConstructed = errors.New(
	"DistributeSelectedOrdersCommand must be created via NewDistributeSelectedOrdersCommand constructor",
)

// DistributeSelectedOrdersCommand distributes an explicit set of orders
// instead of sweeping whole areas. Orders that cannot be assigned are
// reported back rather than failing the pass.
type DistributeSelectedOrdersCommand struct { //nolint:recvcheck //using for validation
	orderIDs  []kernel.UUID
	actorID   kernel.UUID
	actorRole string

	guard guard.ConstructorGuard
}

// NewDistributeSelectedOrdersCommand creates a selective distribution command.
func NewDistributeSelectedOrdersCommand(
	orderIDs []kernel.UUID,
	actorID kernel.UUID,
	actorRole string,
) (DistributeSelectedOrdersCommand, error) {
	if err := actorID.Validate(); err != nil {
		return DistributeSelectedOrdersCommand{}, err
	}
	if len(orderIDs) == 0 {
		return DistributeSelectedOrdersCommand{}, errs.NewValueIsRequiredError("orderIDs")
	}
	for i, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return DistributeSelectedOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("orderIDs[%d]", i), err)
		}
	}

	return DistributeSelectedOrdersCommand{
		orderIDs:  append([]kernel.UUID(nil), orderIDs...),
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DistributeSelectedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDistributeSelectedOrdersCommandIsNotConstructed)
}

// OrderIDs returns the orders to distribute.
func (c DistributeSelectedOrdersCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}

// ActorID returns who triggered the pass.
func (c DistributeSelectedOrdersCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c DistributeSelectedOrdersCommand) ActorRole() string { return c.actorRole }

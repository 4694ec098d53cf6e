package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrRedistributeCourierCommandIsNotConstructed = errors.New(
	"RedistributeCourierCommand must be created via NewRedistributeCourierCommand constructor",
)

// RedistributeCourierCommand represents a request to re-derive one courier's
// stop order after a cancellation or address change. No courier re-selection
// occurs.
type RedistributeCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRedistributeCourierCommand creates a single-courier replan command.
func NewRedistributeCourierCommand(courierID kernel.UUID) (RedistributeCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return RedistributeCourierCommand{}, err
	}

	return RedistributeCourierCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RedistributeCourierCommand) Validate() error {
	return c.guard.Validate(ErrRedistributeCourierCommandIsNotConstructed)
}

// CourierID returns the courier to replan.
func (c RedistributeCourierCommand) CourierID() kernel.UUID { return c.courierID }

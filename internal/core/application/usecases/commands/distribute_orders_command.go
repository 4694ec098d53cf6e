package commands

import (
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrDistributeOrdersCommandIsNotConstructed = errors.New(
	"DistributeOrdersCommand must be created via NewDistributeOrdersCommand constructor",
)

// DistributeOrdersCommand represents a distribution sweep over one or more
// areas: every unassigned order of each area goes to the courier minimizing
// total route time.
type DistributeOrdersCommand struct { //nolint:recvcheck //using for validation
	areaIDs   []kernel.UUID
	actorID   kernel.UUID
	actorRole string

	guard guard.ConstructorGuard
}

// NewDistributeOrdersCommand creates a distribution command for the given areas.
func NewDistributeOrdersCommand(
	areaIDs []kernel.UUID,
	actorID kernel.UUID,
	actorRole string,
) (DistributeOrdersCommand, error) {
	if err := actorID.Validate(); err != nil {
		return DistributeOrdersCommand{}, err
	}
	if len(areaIDs) == 0 {
		return DistributeOrdersCommand{}, errs.NewValueIsRequiredError("areaIDs")
	}
	for i, id := range areaIDs {
		if err := id.Validate(); err != nil {
			return DistributeOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("areaIDs[%d]", i), err)
		}
	}

	return DistributeOrdersCommand{
		areaIDs:   append([]kernel.UUID(nil), areaIDs...),
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DistributeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDistributeOrdersCommandIsNotConstructed)
}

// AreaIDs returns the areas to sweep.
func (c DistributeOrdersCommand) AreaIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.areaIDs...)
}

// ActorID returns who triggered the sweep.
func (c DistributeOrdersCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c DistributeOrdersCommand) ActorRole() string { return c.actorRole }

// DistributionResult reports the outcome of one sweep.
type DistributionResult struct {
	// Assigned maps assigned order IDs to the winning courier per area pass.
	Assigned map[kernel.UUID]kernel.UUID
	// SkippedAreas lists areas whose pass was skipped with the reason.
	SkippedAreas map[kernel.UUID]string
	// ContestedOrders lists orders excluded because a concurrent assignment
	// claimed them first.
	ContestedOrders []kernel.UUID
}

package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrArchiveAreaCommandIsNotConstructed = errors.New(
	"ArchiveAreaCommand must be created via NewArchiveAreaCommand constructor",
)

// ArchiveAreaCommand represents a request to retire a service area.
type ArchiveAreaCommand struct { //nolint:recvcheck //using for validation
	areaID    kernel.UUID
	actorID   kernel.UUID
	actorRole string

	guard guard.ConstructorGuard
}

// NewArchiveAreaCommand creates a command to archive an area.
func NewArchiveAreaCommand(areaID, actorID kernel.UUID, actorRole string) (ArchiveAreaCommand, error) {
	if err := errors.Join(areaID.Validate(), actorID.Validate()); err != nil {
		return ArchiveAreaCommand{}, err
	}

	return ArchiveAreaCommand{
		areaID:    areaID,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ArchiveAreaCommand) Validate() error {
	return c.guard.Validate(ErrArchiveAreaCommandIsNotConstructed)
}

// AreaID returns the area to archive.
func (c ArchiveAreaCommand) AreaID() kernel.UUID { return c.areaID }

// ActorID returns who requested the archival.
func (c ArchiveAreaCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c ArchiveAreaCommand) ActorRole() string { return c.actorRole }

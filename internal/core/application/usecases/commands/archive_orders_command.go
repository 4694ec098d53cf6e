package commands

import (
	"errors"
	"time"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrArchiveOrdersCommandIsNotConstructed = errors.New(
	"ArchiveOrdersCommand must be created via NewArchiveOrdersCommand constructor",
)

// ArchiveOrdersCommand represents the periodic archival of delivered orders
// whose completion stamp is older than the retention window.
type ArchiveOrdersCommand struct { //nolint:recvcheck //using for validation
	retention time.Duration

	guard guard.ConstructorGuard
}

// NewArchiveOrdersCommand creates an archival command with a positive
// retention window.
func NewArchiveOrdersCommand(retention time.Duration) (ArchiveOrdersCommand, error) {
	if retention <= 0 {
		return ArchiveOrdersCommand{}, errs.NewValueIsInvalidError("retention")
	}

	return ArchiveOrdersCommand{
		retention: retention,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ArchiveOrdersCommand) Validate() error {
	return c.guard.Validate(ErrArchiveOrdersCommandIsNotConstructed)
}

// Retention returns how long completed orders stay active.
func (c ArchiveOrdersCommand) Retention() time.Duration { return c.retention }

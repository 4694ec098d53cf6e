package commands

import (
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrResolvePostControlCommandIsNotConstructed = errors.New(
	"ResolvePostControlCommand must be created via its constructors",
)

// resolveMode selects between targeted resolutions and the bulk shortcuts.
type resolveMode int

const (
	resolveList resolveMode = iota
	resolveAcceptAll
	resolveDeclineAll
)

// DocumentResolution is one targeted review decision.
type DocumentResolution struct {
	DocumentID kernel.UUID
	Resolution postcontrol.Resolution
	Comment    string
}

// ResolvePostControlCommand represents a batch of review decisions for an
// order's verification documents, applied atomically.
type ResolvePostControlCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	resolutions []DocumentResolution
	mode        resolveMode
	bulkComment string
	actorID     kernel.UUID
	actorRole   string

	guard guard.ConstructorGuard
}

// NewResolvePostControlCommand creates a command applying targeted decisions.
func NewResolvePostControlCommand(
	orderID kernel.UUID,
	resolutions []DocumentResolution,
	actorID kernel.UUID,
	actorRole string,
) (ResolvePostControlCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return ResolvePostControlCommand{}, err
	}
	if len(resolutions) == 0 {
		return ResolvePostControlCommand{}, errs.NewValueIsRequiredError("resolutions")
	}
	for i, r := range resolutions {
		if err := r.DocumentID.Validate(); err != nil {
			return ResolvePostControlCommand{}, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("resolutions[%d].documentID", i), err)
		}
		if r.Resolution.IsDeclining() && r.Comment == "" {
			return ResolvePostControlCommand{}, postcontrol.ErrCommentIsRequired
		}
	}

	return ResolvePostControlCommand{
		orderID:     orderID,
		resolutions: append([]DocumentResolution(nil), resolutions...),
		mode:        resolveList,
		actorID:     actorID,
		actorRole:   actorRole,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// NewAcceptAllPostControlCommand creates the bulk acceptance shortcut.
func NewAcceptAllPostControlCommand(
	orderID, actorID kernel.UUID,
	actorRole string,
) (ResolvePostControlCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return ResolvePostControlCommand{}, err
	}

	return ResolvePostControlCommand{
		orderID:   orderID,
		mode:      resolveAcceptAll,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewDeclineAllPostControlCommand creates the bulk decline shortcut.
func NewDeclineAllPostControlCommand(
	orderID, actorID kernel.UUID,
	actorRole, comment string,
) (ResolvePostControlCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return ResolvePostControlCommand{}, err
	}
	if comment == "" {
		return ResolvePostControlCommand{}, postcontrol.ErrCommentIsRequired
	}

	return ResolvePostControlCommand{
		orderID:     orderID,
		mode:        resolveDeclineAll,
		bulkComment: comment,
		actorID:     actorID,
		actorRole:   actorRole,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c ResolvePostControlCommand) Validate() error {
	return c.guard.Validate(ErrResolvePostControlCommandIsNotConstructed)
}

// OrderID returns the order under review.
func (c ResolvePostControlCommand) OrderID() kernel.UUID { return c.orderID }

// Resolutions returns the targeted decisions, empty for bulk modes.
func (c ResolvePostControlCommand) Resolutions() []DocumentResolution {
	return append([]DocumentResolution(nil), c.resolutions...)
}

// IsAcceptAll reports whether this is the bulk acceptance shortcut.
func (c ResolvePostControlCommand) IsAcceptAll() bool { return c.mode == resolveAcceptAll }

// IsDeclineAll reports whether this is the bulk decline shortcut.
func (c ResolvePostControlCommand) IsDeclineAll() bool { return c.mode == resolveDeclineAll }

// BulkComment returns the comment attached to a bulk decline.
func (c ResolvePostControlCommand) BulkComment() string { return c.bulkComment }

// ActorID returns the reviewing actor.
func (c ResolvePostControlCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the actor's role for the audit trail.
func (c ResolvePostControlCommand) ActorRole() string { return c.actorRole }

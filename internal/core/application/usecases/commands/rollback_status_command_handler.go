package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

// RollbackStatusCommandHandler rewinds an order's checkpoint history under
// the same per-order lock as forward transitions.
type RollbackStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	audit      ports.AuditHistory
	now        func() time.Time
}

// NewRollbackStatusCommandHandler creates a handler for history rollbacks.
func NewRollbackStatusCommandHandler(
	uowFactory OrderUoWFactory,
	audit ports.AuditHistory,
) RollbackStatusCommandHandler {
	return RollbackStatusCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
		now:        time.Now,
	}
}

// Handle removes history entries after (or including) the named checkpoint
// and resets the current status pointer to the last remaining entry.
func (h *RollbackStatusCommandHandler) Handle(ctx context.Context, cmd RollbackStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.RollbackTo(cmd.StatusSlug(), cmd.Inclusive(), h.now()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "rollback_status",
		ModelType: "order",
		ModelID:   aggregate.ID(),
		Payload: map[string]any{
			"status":    string(cmd.StatusSlug()),
			"inclusive": cmd.Inclusive(),
		},
		Timestamp: h.now(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

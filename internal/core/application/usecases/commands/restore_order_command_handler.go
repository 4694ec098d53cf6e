package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

// RestoreOrderCommandHandler reopens a closed order: history collapses back
// to the initial checkpoint, the exception track clears and the order's
// verification documents are removed so post-control starts over.
type RestoreOrderCommandHandler struct {
	uowFactory TransitionUoWFactory
	audit      ports.AuditHistory
	now        func() time.Time
}

// NewRestoreOrderCommandHandler creates a handler for order restoration.
func NewRestoreOrderCommandHandler(
	uowFactory TransitionUoWFactory,
	audit ports.AuditHistory,
) RestoreOrderCommandHandler {
	return RestoreOrderCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
		now:        time.Now,
	}
}

// Handle restores the order. Delivered orders are rejected by the aggregate.
func (h *RestoreOrderCommandHandler) Handle(ctx context.Context, cmd RestoreOrderCommand) error {
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

	if err = aggregate.Restore(h.now()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.PostControlRepository().DeleteDocumentsByOrder(ctx, aggregate.ID()); err != nil {
		return err
	}

	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "restore_order",
		ModelType: "order",
		ModelID:   aggregate.ID(),
		Timestamp: h.now(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

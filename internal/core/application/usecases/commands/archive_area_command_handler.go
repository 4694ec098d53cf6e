package commands

import (
	"context"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/area"
	"lastmile/internal/core/ports"
)

// ArchiveAreaCommandHandler retires a service area. Archived areas drop out
// of resolution and distribution; an area still referenced by unfinished
// orders cannot be archived.
type ArchiveAreaCommandHandler struct {
	uowFactory AreaUoWFactory
	audit      ports.AuditHistory
	now        func() time.Time
}

// NewArchiveAreaCommandHandler creates a handler for area archival.
func NewArchiveAreaCommandHandler(
	uowFactory AreaUoWFactory,
	audit ports.AuditHistory,
) ArchiveAreaCommandHandler {
	return ArchiveAreaCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
		now:        time.Now,
	}
}

// Handle archives the area once no open orders reference it.
func (h *ArchiveAreaCommandHandler) Handle(ctx context.Context, cmd ArchiveAreaCommand) error {
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

	aggregate, err := uow.AreaRepository().Get(ctx, cmd.AreaID())
	if err != nil {
		return err
	}
	if aggregate.IsArchived() {
		return area.ErrAreaIsArchived
	}

	open, err := uow.OrderRepository().CountOpenByArea(ctx, cmd.AreaID())
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("%w: %d open", area.ErrAreaHasOpenOrders, open)
	}

	aggregate.Archive()
	if err = uow.AreaRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "archive_area",
		ModelType: "area",
		ModelID:   aggregate.ID(),
		Timestamp: h.now(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

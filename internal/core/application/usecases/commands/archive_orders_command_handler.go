package commands

import (
	"context"
	"log/slog"
	"time"
)

// ArchiveOrdersCommandHandler moves long-finished orders out of the active
// working set. Archived orders reject further status changes until restored.
type ArchiveOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
	logger     *slog.Logger
}

// NewArchiveOrdersCommandHandler creates a handler for the archival sweep.
func NewArchiveOrdersCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) ArchiveOrdersCommandHandler {
	return ArchiveOrdersCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
		logger:     logger.With("component", "archival"),
	}
}

// Handle archives every completed order older than the retention window and
// returns how many were archived.
func (h *ArchiveOrdersCommandHandler) Handle(ctx context.Context, cmd ArchiveOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := h.now().Add(-cmd.Retention())
	stale, err := uow.OrderRepository().GetCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, o := range stale {
		o.MarkArchived()
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return 0, err
		}
		archived++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if archived > 0 {
		h.logger.Info("archival sweep completed", "archived", archived, "cutoff", cutoff)
	}
	return archived, nil
}

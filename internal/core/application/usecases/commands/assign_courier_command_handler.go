package commands

import (
	"context"
	"log/slog"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// AssignCourierCommandHandler performs a direct courier assignment and
// re-derives the courier's stop order through the routing oracle.
type AssignCourierCommandHandler struct {
	uowFactory DistributionUoWFactory
	engine     *services.DistributionEngine
	audit      ports.AuditHistory
	events     ports.EventPublisher
	now        func() time.Time
	logger     *slog.Logger
}

// NewAssignCourierCommandHandler creates a handler for direct assignments.
func NewAssignCourierCommandHandler(
	uowFactory DistributionUoWFactory,
	engine *services.DistributionEngine,
	audit ports.AuditHistory,
	events ports.EventPublisher,
	logger *slog.Logger,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		audit:      audit,
		events:     events,
		now:        time.Now,
		logger:     logger.With("component", "assign_courier"),
	}
}

// Handle assigns the order under its row lock, commits, then replans the
// courier's route. A replan failure is logged, the assignment stands.
func (h *AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
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

	courierAggregate, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.AssignCourier(courierAggregate.ID()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "assign_courier",
		ModelType: "order",
		ModelID:   aggregate.ID(),
		Payload:   map[string]any{"courier_id": courierAggregate.ID().String()},
		Timestamp: h.now(),
	}); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.OrderAssignedEvent{
		OrderID:    aggregate.ID(),
		CourierID:  courierAggregate.ID(),
		AreaID:     aggregate.AreaID(),
		OccurredAt: h.now(),
	}
	if err = h.events.PublishOrderAssigned(ctx, event); err != nil {
		h.logger.Error("order assigned event not published",
			"order_id", aggregate.ID().String(), "error", err)
	}

	if err = h.replanCourier(ctx, courierAggregate.ID()); err != nil {
		h.logger.Warn("route replan failed",
			"courier_id", courierAggregate.ID().String(), "error", err)
	}

	return nil
}

// replanCourier recomputes the courier's stop order over their current open
// set in a fresh transaction.
func (h *AssignCourierCommandHandler) replanCourier(ctx context.Context, courierID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierAggregate, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		return err
	}

	open, err := uow.OrderRepository().GetOpenByCourierOnDay(ctx, courierID, h.now())
	if err != nil {
		return err
	}

	stops := make([]ports.RouteStop, 0, len(open))
	for _, o := range open {
		stops = append(stops, ports.RouteStop{OrderID: o.ID(), Point: o.DeliveryPoint()})
	}

	plan, err := h.engine.Replan(ctx, courierAggregate, stops)
	if err != nil {
		return err
	}

	if err = uow.CourierRepository().SaveRoutePlan(ctx, courierID, plan); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

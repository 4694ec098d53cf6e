package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/metrics"
)

// RedistributeCourierCommandHandler recomputes the authoritative stop order
// of one courier's current open set through the routing oracle.
type RedistributeCourierCommandHandler struct {
	uowFactory DistributionUoWFactory
	engine     *services.DistributionEngine
	now        func() time.Time
}

// NewRedistributeCourierCommandHandler creates a handler for courier replans.
func NewRedistributeCourierCommandHandler(
	uowFactory DistributionUoWFactory,
	engine *services.DistributionEngine,
) RedistributeCourierCommandHandler {
	return RedistributeCourierCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		now:        time.Now,
	}
}

// Handle replans and persists the courier's route.
func (h *RedistributeCourierCommandHandler) Handle(ctx context.Context, cmd RedistributeCourierCommand) error {
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

	open, err := uow.OrderRepository().GetOpenByCourierOnDay(ctx, cmd.CourierID(), h.now())
	if err != nil {
		return err
	}

	stops := make([]ports.RouteStop, 0, len(open))
	for _, o := range open {
		stops = append(stops, ports.RouteStop{OrderID: o.ID(), Point: o.DeliveryPoint()})
	}

	plan, err := h.engine.Replan(ctx, courierAggregate, stops)
	if err != nil {
		metrics.OracleErrors.Inc()
		return err
	}

	if err = uow.CourierRepository().SaveRoutePlan(ctx, cmd.CourierID(), plan); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

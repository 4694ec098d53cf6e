package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/metrics"
)

// DistributeOrdersCommandHandler runs the distribution pass: per area it
// gathers unassigned orders and active couriers, asks the engine for the
// minimum-time courier, and commits the whole candidate set to that courier.
type DistributeOrdersCommandHandler struct {
	uowFactory DistributionUoWFactory
	engine     *services.DistributionEngine
	audit      ports.AuditHistory
	events     ports.EventPublisher
	now        func() time.Time
	logger     *slog.Logger
}

// NewDistributeOrdersCommandHandler creates a handler for distribution sweeps.
func NewDistributeOrdersCommandHandler(
	uowFactory DistributionUoWFactory,
	engine *services.DistributionEngine,
	audit ports.AuditHistory,
	events ports.EventPublisher,
	logger *slog.Logger,
) DistributeOrdersCommandHandler {
	return DistributeOrdersCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		audit:      audit,
		events:     events,
		now:        time.Now,
		logger:     logger.With("component", "distribution"),
	}
}

// Handle sweeps the requested areas. A pass that finds no orders or no
// couriers is recorded and skipped; errors of one area never abort the others.
func (h *DistributeOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd DistributeOrdersCommand,
) (*DistributionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &DistributionResult{
		Assigned:     make(map[kernel.UUID]kernel.UUID),
		SkippedAreas: make(map[kernel.UUID]string),
	}

	for _, areaID := range cmd.AreaIDs() {
		if err := h.distributeArea(ctx, cmd, areaID, result); err != nil {
			switch {
			case errors.Is(err, services.ErrNoCouriersAvailable),
				errors.Is(err, services.ErrNoOrdersToDistribute):
				result.SkippedAreas[areaID] = err.Error()
				metrics.DistributionPasses.WithLabelValues("skipped").Inc()
				h.logger.Info("distribution pass skipped",
					"area_id", areaID.String(), "reason", err.Error())
			default:
				result.SkippedAreas[areaID] = err.Error()
				metrics.DistributionPasses.WithLabelValues("failed").Inc()
				h.logger.Error("distribution pass failed",
					"area_id", areaID.String(), "error", err)
			}
			continue
		}
		metrics.DistributionPasses.WithLabelValues("assigned").Inc()
	}

	return result, nil
}

// DistributeArea runs a single-area pass. It implements AreaDistributor for
// post-creation auto-distribution.
func (h *DistributeOrdersCommandHandler) DistributeArea(ctx context.Context, areaID kernel.UUID) error {
	cmd, err := NewDistributeOrdersCommand([]kernel.UUID{areaID}, kernel.NewUUID(), "system")
	if err != nil {
		return err
	}

	result := &DistributionResult{
		Assigned:     make(map[kernel.UUID]kernel.UUID),
		SkippedAreas: make(map[kernel.UUID]string),
	}
	return h.distributeArea(ctx, cmd, areaID, result)
}

func (h *DistributeOrdersCommandHandler) distributeArea(
	ctx context.Context,
	cmd DistributeOrdersCommand,
	areaID kernel.UUID,
	result *DistributionResult,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	fetched, err := uow.OrderRepository().GetUnassignedByArea(ctx, areaID)
	if err != nil {
		return err
	}
	candidates := make([]*order.Order, 0, len(fetched))
	for _, candidate := range fetched {
		if isDistributable(candidate) {
			candidates = append(candidates, candidate)
		}
	}
	if len(candidates) == 0 {
		return services.ErrNoOrdersToDistribute
	}

	couriers, err := uow.CourierRepository().GetActiveByArea(ctx, areaID)
	if err != nil {
		return err
	}
	if len(couriers) == 0 {
		return services.ErrNoCouriersAvailable
	}

	loads, err := h.courierLoads(ctx, uow, couriers)
	if err != nil {
		return err
	}

	assignment, err := h.engine.SelectCourier(ctx, candidates, loads)
	if err != nil {
		return err
	}

	winner := assignment.Courier
	committed := make([]*kernel.UUID, 0, len(candidates))
	for _, candidate := range candidates {
		locked, err := uow.OrderRepository().GetForUpdate(ctx, candidate.ID())
		if err != nil {
			if errors.Is(err, ports.ErrConcurrentModification) {
				id := candidate.ID()
				result.ContestedOrders = append(result.ContestedOrders, id)
				h.logger.Warn("order contested during distribution", "order_id", id.String())
				continue
			}
			return err
		}
		if locked.CourierID() != nil {
			result.ContestedOrders = append(result.ContestedOrders, locked.ID())
			continue
		}

		if err = locked.AssignCourier(winner.ID()); err != nil {
			return err
		}
		if err = uow.OrderRepository().Update(ctx, locked); err != nil {
			return err
		}
		id := locked.ID()
		committed = append(committed, &id)
	}

	if len(committed) == 0 {
		return services.ErrNoOrdersToDistribute
	}

	plan, err := h.finalPlan(ctx, uow, winner.ID())
	if err != nil {
		h.logger.Warn("final route plan not recomputed",
			"courier_id", winner.ID().String(), "error", err)
	} else if err = uow.CourierRepository().SaveRoutePlan(ctx, winner.ID(), plan); err != nil {
		return err
	}

	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "distribute_orders",
		ModelType: "area",
		ModelID:   areaID,
		Payload: map[string]any{
			"courier_id": winner.ID().String(),
			"orders":     len(committed),
		},
		Timestamp: h.now(),
	}); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, orderID := range committed {
		result.Assigned[*orderID] = winner.ID()
		event := ports.OrderAssignedEvent{
			OrderID:    *orderID,
			CourierID:  winner.ID(),
			AreaID:     &areaID,
			OccurredAt: h.now(),
		}
		if err := h.events.PublishOrderAssigned(ctx, event); err != nil {
			h.logger.Error("order assigned event not published",
				"order_id", orderID.String(), "error", err)
		}
	}

	return nil
}

// courierLoads gathers each courier's committed same-day stops for the
// selection pass.
func (h *DistributeOrdersCommandHandler) courierLoads(
	ctx context.Context,
	uow DistributionUoW,
	couriers []*courier.Courier,
) ([]services.CourierLoad, error) {
	loads := make([]services.CourierLoad, 0, len(couriers))
	day := h.now()
	for _, c := range couriers {
		open, err := uow.OrderRepository().GetOpenByCourierOnDay(ctx, c.ID(), day)
		if err != nil {
			return nil, err
		}
		stops := make([]ports.RouteStop, 0, len(open))
		for _, o := range open {
			stops = append(stops, ports.RouteStop{OrderID: o.ID(), Point: o.DeliveryPoint()})
		}
		loads = append(loads, services.CourierLoad{Courier: c, Committed: stops})
	}
	return loads, nil
}

// finalPlan recomputes the winner's authoritative stop order including the
// just-committed candidates.
func (h *DistributeOrdersCommandHandler) finalPlan(
	ctx context.Context,
	uow DistributionUoW,
	courierID kernel.UUID,
) (ports.RoutePlan, error) {
	courierAggregate, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		return ports.RoutePlan{}, err
	}

	open, err := uow.OrderRepository().GetOpenByCourierOnDay(ctx, courierID, h.now())
	if err != nil {
		return ports.RoutePlan{}, err
	}

	stops := make([]ports.RouteStop, 0, len(open))
	for _, o := range open {
		stops = append(stops, ports.RouteStop{OrderID: o.ID(), Point: o.DeliveryPoint()})
	}

	plan, err := h.engine.Replan(ctx, courierAggregate, stops)
	if err != nil {
		metrics.OracleErrors.Inc()
		return ports.RoutePlan{}, err
	}
	return plan, nil
}

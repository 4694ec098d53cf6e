package commands

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/metrics"
)

// HandleSelected distributes an explicit order set. Orders are locked up
// front, grouped by area and each group assigned to the minimum-time courier
// of that area. The returned slice lists the order IDs left unassigned:
// contested, already assigned, archived, without an area, excluded by their
// delivery status, or in an area with no active couriers.
func (h *DistributeOrdersCommandHandler) HandleSelected(
	ctx context.Context,
	cmd DistributeSelectedOrdersCommand,
) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	leftover := make([]kernel.UUID, 0)
	byArea := make(map[kernel.UUID][]*order.Order)

	for _, orderID := range cmd.OrderIDs() {
		locked, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, ports.ErrConcurrentModification) {
				leftover = append(leftover, orderID)
				continue
			}
			return nil, err
		}
		if !isDistributable(locked) {
			leftover = append(leftover, orderID)
			continue
		}
		areaID := *locked.AreaID()
		byArea[areaID] = append(byArea[areaID], locked)
	}

	type pendingEvent struct {
		orderID   kernel.UUID
		courierID kernel.UUID
		areaID    kernel.UUID
	}
	assigned := make([]pendingEvent, 0)

	for areaID, candidates := range byArea {
		couriers, err := uow.CourierRepository().GetActiveByArea(ctx, areaID)
		if err != nil {
			return nil, err
		}
		if len(couriers) == 0 {
			for _, candidate := range candidates {
				leftover = append(leftover, candidate.ID())
			}
			continue
		}

		loads, err := h.courierLoads(ctx, uow, couriers)
		if err != nil {
			return nil, err
		}

		assignment, err := h.engine.SelectCourier(ctx, candidates, loads)
		if err != nil {
			for _, candidate := range candidates {
				leftover = append(leftover, candidate.ID())
			}
			h.logger.Warn("selective distribution left area unassigned",
				"area_id", areaID.String(), "error", err)
			continue
		}

		winner := assignment.Courier
		for _, candidate := range candidates {
			if err = candidate.AssignCourier(winner.ID()); err != nil {
				return nil, err
			}
			if err = uow.OrderRepository().Update(ctx, candidate); err != nil {
				return nil, err
			}
			assigned = append(assigned, pendingEvent{
				orderID: candidate.ID(), courierID: winner.ID(), areaID: areaID})
		}

		plan, err := h.finalPlan(ctx, uow, winner.ID())
		if err != nil {
			h.logger.Warn("final route plan not recomputed",
				"courier_id", winner.ID().String(), "error", err)
		} else if err = uow.CourierRepository().SaveRoutePlan(ctx, winner.ID(), plan); err != nil {
			return nil, err
		}

		if err = h.audit.Record(ctx, ports.AuditRecord{
			Initiator: cmd.ActorID(),
			Role:      cmd.ActorRole(),
			Method:    "distribute_selected_orders",
			ModelType: "area",
			ModelID:   areaID,
			Payload: map[string]any{
				"courier_id": winner.ID().String(),
				"orders":     len(candidates),
			},
			Timestamp: h.now(),
		}); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	metrics.DistributionPasses.WithLabelValues("selective").Inc()

	for _, a := range assigned {
		areaID := a.areaID
		event := ports.OrderAssignedEvent{
			OrderID:    a.orderID,
			CourierID:  a.courierID,
			AreaID:     &areaID,
			OccurredAt: h.now(),
		}
		if err := h.events.PublishOrderAssigned(ctx, event); err != nil {
			h.logger.Error("order assigned event not published",
				"order_id", a.orderID.String(), "error", err)
		}
	}

	return leftover, nil
}

// isDistributable reports whether the order can take a courier in a
// distribution pass.
func isDistributable(o *order.Order) bool {
	if o.CourierID() != nil || o.IsArchived() || o.AreaID() == nil {
		return false
	}
	ds := o.DeliveryStatus()
	if ds.Is(order.Cancelled) || ds.Is(order.CancelledAtClient) || ds.Is(order.Postponed) {
		return false
	}
	return true
}

package commands

import (
	"context"
	"log/slog"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/services"
)

// AreaDistributor triggers a distribution pass for an area. Implemented by
// DistributeOrdersCommandHandler; injected so order creation can auto-
// distribute without a package cycle.
type AreaDistributor interface {
	DistributeArea(ctx context.Context, areaID kernel.UUID) error
}

// CreateOrderCommandHandler handles the business logic for order creation:
// graph lookup, aggregate construction with its initial checkpoint, area
// resolution and post-creation auto-distribution.
type CreateOrderCommandHandler struct {
	uowFactory   CreateOrderUoWFactory
	areaResolver services.AreaResolver
	distributor  AreaDistributor
	now          func() time.Time
	logger       *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// distributor may be nil to disable auto-distribution.
func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	distributor AreaDistributor,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:   uowFactory,
		areaResolver: services.NewAreaResolver(),
		distributor:  distributor,
		now:          time.Now,
		logger:       logger.With("component", "create_order"),
	}
}

// Handle creates the order inside one transaction: the graph serving the
// product is looked up, the aggregate gets its initial checkpoint and the
// delivery point is resolved to an area. Auto-distribution runs after commit
// and its failure does not fail the creation.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	point, err := kernel.NewGeoPoint(cmd.Latitude(), cmd.Longitude())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	graph, err := uow.DeliveryGraphRepository().GetForOrder(
		ctx, cmd.ProductType(), cmd.OrderType(), cmd.PartnerID())
	if err != nil {
		return err
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.PartnerID(), cmd.ProductType(), cmd.OrderType(),
		graph, point, cmd.City(), cmd.Timezone(), cmd.OTPExempt(), h.now())
	if err != nil {
		return err
	}

	areas, err := uow.AreaRepository().GetActiveByPartnerAndCity(ctx, cmd.PartnerID(), cmd.City())
	if err != nil {
		return err
	}

	if _, err = h.areaResolver.Resolve(aggregate, areas); err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if h.distributor != nil && aggregate.AreaID() != nil {
		if err := h.distributor.DistributeArea(ctx, *aggregate.AreaID()); err != nil {
			h.logger.Warn("auto distribution failed",
				"order_id", aggregate.ID().String(), "error", err)
		}
	}

	return nil
}

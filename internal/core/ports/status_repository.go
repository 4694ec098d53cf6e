package ports

import (
	"context"

	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/status"
)

// StatusRepository defines the lookup contract for the checkpoint catalogue.
type StatusRepository interface {
	// Get retrieves a status by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*status.Status, error)

	// GetBySlug retrieves a status by slug, preferring a partner-scoped one
	// over a global one.
	GetBySlug(ctx context.Context, slug status.Slug, partnerID *kernel.UUID) (*status.Status, error)
}

// DeliveryGraphRepository defines the lookup contract for delivery graphs.
type DeliveryGraphRepository interface {
	// Get retrieves a delivery graph by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*deliverygraph.DeliveryGraph, error)

	// GetForOrder retrieves the graph serving the given product and order
	// type, preferring a partner-scoped graph.
	GetForOrder(
		ctx context.Context,
		productType order.ProductType,
		orderType order.Type,
		partnerID kernel.UUID,
	) (*deliverygraph.DeliveryGraph, error)
}

package ports

import (
	"context"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetActiveByArea retrieves the active member couriers of an area.
	GetActiveByArea(ctx context.Context, areaID kernel.UUID) ([]*courier.Courier, error)

	// SaveRoutePlan persists the authoritative stop order computed for a
	// courier. The previous plan is replaced.
	SaveRoutePlan(ctx context.Context, courierID kernel.UUID, plan RoutePlan) error
}

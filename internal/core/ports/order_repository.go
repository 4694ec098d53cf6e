// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the routing oracle and the
// outbound event/callback channels. Adapters implement these interfaces,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order under a row-level write lock without
	// waiting. Lock contention surfaces as ErrConcurrentModification so the
	// caller may retry.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetUnassignedByArea retrieves open, unassigned orders whose resolved
	// area matches the given one.
	GetUnassignedByArea(ctx context.Context, areaID kernel.UUID) ([]*order.Order, error)

	// GetOpenByCourierOnDay retrieves a courier's open orders created on the
	// given day, the committed stop set used by distribution.
	GetOpenByCourierOnDay(ctx context.Context, courierID kernel.UUID, day time.Time) ([]*order.Order, error)

	// GetCompletedBefore retrieves finished orders not yet archived whose
	// completion stamp is older than the cutoff.
	GetCompletedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// CountOpenByArea counts unfinished orders whose resolved area matches
	// the given one, assigned or not.
	CountOpenByArea(ctx context.Context, areaID kernel.UUID) (int64, error)
}

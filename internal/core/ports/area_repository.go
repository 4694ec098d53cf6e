package ports

import (
	"context"

	"lastmile/internal/core/domain/model/area"
	"lastmile/internal/core/domain/model/kernel"
)

// AreaRepository defines the persistence contract for service areas.
type AreaRepository interface {
	// Add persists a new area aggregate to storage.
	Add(ctx context.Context, aggregate *area.Area) error

	// Update persists changes to an existing area aggregate.
	Update(ctx context.Context, aggregate *area.Area) error

	// Get retrieves an area aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*area.Area, error)

	// GetActiveByPartnerAndCity retrieves non-archived areas of a partner in a
	// city, in creation order. Resolution relies on that order for its
	// first-match tie-break.
	GetActiveByPartnerAndCity(ctx context.Context, partnerID kernel.UUID, city string) ([]*area.Area, error)
}

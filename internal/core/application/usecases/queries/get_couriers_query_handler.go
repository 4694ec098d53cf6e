package queries

import (
	"context"
	"database/sql"
	"time"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCouriersQueryHandler retrieves couriers joined with their latest route
// plan estimate.
type GetCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetCouriersQueryHandler creates a handler for courier list queries.
func NewGetCouriersQueryHandler(db *gorm.DB) GetCouriersQueryHandler {
	return GetCouriersQueryHandler{db: db}
}

// Handle executes the query to retrieve all couriers sorted by name.
func (h GetCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetCouriersQuery,
) ([]GetCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name,
			c.phone,
			c.city,
			c.active,
			p.total_seconds
		FROM couriers c
		LEFT JOIN route_plans p ON p.courier_id = c.id
		ORDER BY c.name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           uuid.UUID
			totalSeconds sql.NullInt64
			resp         GetCouriersQueryResponse
		)
		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.Phone,
			&resp.City,
			&resp.Active,
			&totalSeconds,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if totalSeconds.Valid {
			duration := time.Duration(totalSeconds.Int64) * time.Second
			resp.RouteTime = &duration
		}

		couriers = append(couriers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}

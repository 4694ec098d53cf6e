package queries

import (
	"context"
	"database/sql"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUncompletedOrdersQueryHandler retrieves orders pending delivery from the
// database. Terminal and archived orders are filtered out.
type GetUncompletedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUncompletedOrdersQueryHandler creates a handler for open order queries.
func NewGetUncompletedOrdersQueryHandler(db *gorm.DB) GetUncompletedOrdersQueryHandler {
	return GetUncompletedOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all open orders sorted by creation time.
func (h GetUncompletedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUncompletedOrdersQuery,
) ([]GetUncompletedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUncompletedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			latitude,
			longitude,
			city,
			current_slug,
			courier_id,
			delivery_status
		FROM orders
		WHERE archived = false
		  AND current_slug NOT IN ('delivered', 'issued', 'ended')
		ORDER BY created_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                  uuid.UUID
			courierID           *uuid.UUID
			latitude, longitude float64
			deliveryStatus      sql.NullString
			resp                GetUncompletedOrdersQueryResponse
		)
		err = rows.Scan(
			&id,
			&latitude,
			&longitude,
			&resp.City,
			&resp.CurrentSlug,
			&courierID,
			&deliveryStatus,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.CourierID, err = optionalUUID(courierID); err != nil {
			return nil, err
		}
		if resp.DeliveryPoint, err = kernel.NewGeoPoint(latitude, longitude); err != nil {
			return nil, err
		}
		if deliveryStatus.Valid {
			value := deliveryStatus.String
			resp.DeliveryStatus = &value
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

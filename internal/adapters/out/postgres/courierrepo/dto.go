// Package courierrepo provides data transfer objects and mapping functions for
// courier persistence, including the authoritative route plan computed by the
// distribution engine.
package courierrepo

import (
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
type CourierDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(32)"`
	PartnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	City      string    `gorm:"type:varchar(128);not null;index"`
	Active    bool      `gorm:"not null;default:true"`
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// RoutePlanDTO stores the latest oracle-computed stop order per courier. A new
// plan replaces the previous row.
type RoutePlanDTO struct {
	CourierID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TotalSeconds int64     `gorm:"not null"`
	Stops        []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt    time.Time
}

// TableName specifies the database table name for route plans.
func (RoutePlanDTO) TableName() string {
	return "route_plans"
}

// routeStopDTO is the JSON shape of one planned stop.
type routeStopDTO struct {
	OrderID   uuid.UUID `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:        c.ID().Bytes(),
		Name:      c.Name(),
		Phone:     c.Phone(),
		PartnerID: c.PartnerID().Bytes(),
		City:      c.City(),
		Active:    c.IsActive(),
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, dto.Phone, partnerID, dto.City, dto.Active)
}

// planFromDomain converts a route plan to its database representation.
func planFromDomain(courierID kernel.UUID, plan ports.RoutePlan) (RoutePlanDTO, error) {
	stops := make([]routeStopDTO, 0, len(plan.Stops))
	for _, stop := range plan.Stops {
		stops = append(stops, routeStopDTO{
			OrderID:   stop.OrderID.Bytes(),
			Latitude:  stop.Point.Latitude(),
			Longitude: stop.Point.Longitude(),
		})
	}
	rawStops, err := json.Marshal(stops)
	if err != nil {
		return RoutePlanDTO{}, err
	}

	return RoutePlanDTO{
		CourierID:    courierID.Bytes(),
		TotalSeconds: int64(plan.TotalTime.Seconds()),
		Stops:        rawStops,
	}, nil
}

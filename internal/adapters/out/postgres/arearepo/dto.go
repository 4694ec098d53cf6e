// Package arearepo provides persistence for polygon-bounded service areas.
package arearepo

import (
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/area"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AreaDTO represents the database structure for service areas. The polygon is
// stored as a JSON list of [latitude, longitude] pairs, courier membership as
// a JSON list of ids.
type AreaDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	PartnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_areas_partner_city"`
	City      string    `gorm:"type:varchar(128);not null;index:idx_areas_partner_city"`
	Polygon   []byte    `gorm:"type:jsonb;not null"`
	Couriers  []byte    `gorm:"type:jsonb"`
	Archived  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName specifies the database table name for areas.
func (AreaDTO) TableName() string {
	return "areas"
}

// fromDomain converts an area aggregate to its database representation.
func fromDomain(a *area.Area) (AreaDTO, error) {
	vertices := a.Polygon().Vertices()
	rawVertices := make([][2]float64, 0, len(vertices))
	for _, v := range vertices {
		rawVertices = append(rawVertices, [2]float64{v.Latitude(), v.Longitude()})
	}
	polygon, err := json.Marshal(rawVertices)
	if err != nil {
		return AreaDTO{}, err
	}

	memberIDs := make([]uuid.UUID, 0, len(a.Couriers()))
	for _, id := range a.Couriers() {
		memberIDs = append(memberIDs, id.Bytes())
	}
	couriers, err := json.Marshal(memberIDs)
	if err != nil {
		return AreaDTO{}, err
	}

	return AreaDTO{
		ID:        a.ID().Bytes(),
		Name:      a.Name(),
		PartnerID: a.PartnerID().Bytes(),
		City:      a.City(),
		Polygon:   polygon,
		Couriers:  couriers,
		Archived:  a.IsArchived(),
	}, nil
}

// toDomain converts a database DTO to an area aggregate.
func toDomain(dto AreaDTO) (*area.Area, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}

	var rawVertices [][2]float64
	if err = json.Unmarshal(dto.Polygon, &rawVertices); err != nil {
		return nil, err
	}
	vertices := make([]kernel.GeoPoint, 0, len(rawVertices))
	for _, pair := range rawVertices {
		point, pErr := kernel.NewGeoPoint(pair[0], pair[1])
		if pErr != nil {
			return nil, pErr
		}
		vertices = append(vertices, point)
	}
	polygon, err := kernel.NewPolygon(vertices)
	if err != nil {
		return nil, err
	}

	var memberIDs []uuid.UUID
	if len(dto.Couriers) > 0 {
		if err = json.Unmarshal(dto.Couriers, &memberIDs); err != nil {
			return nil, err
		}
	}
	couriers := make([]kernel.UUID, 0, len(memberIDs))
	for _, raw := range memberIDs {
		memberID, mErr := kernel.UUIDFromBytes(raw[:])
		if mErr != nil {
			return nil, mErr
		}
		couriers = append(couriers, memberID)
	}

	return area.RestoreArea(id, dto.Name, partnerID, dto.City, polygon, couriers, dto.Archived)
}

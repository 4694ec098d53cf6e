// Package graphrepo provides persistence for the delivery graph catalogue.
// Graphs are configuration data: step lists and served order types are stored
// as JSON on the graph row.
package graphrepo

import (
	"encoding/json"

	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/status"

	"github.com/google/uuid"
)

// GraphDTO represents the database structure for delivery graphs.
type GraphDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Slug         string     `gorm:"type:varchar(128);not null;uniqueIndex"`
	PartnerID    *uuid.UUID `gorm:"type:uuid;index"`
	ProductType  string     `gorm:"type:varchar(32);not null;index"`
	OrderTypes   []byte     `gorm:"type:jsonb;not null"`
	OperatorFlow []byte     `gorm:"type:jsonb;not null"`
	CourierFlow  []byte     `gorm:"type:jsonb;not null"`
}

// TableName specifies the database table name for delivery graphs.
func (GraphDTO) TableName() string {
	return "delivery_graphs"
}

// stepDTO is the JSON shape of one graph step.
type stepDTO struct {
	StatusID uuid.UUID `json:"status_id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon,omitempty"`
	Position int       `json:"position"`
}

// fromDomain converts a delivery graph to its database representation. The
// product type is catalogue metadata carried on the row only.
func fromDomain(graph *deliverygraph.DeliveryGraph, productType string) (GraphDTO, error) {
	orderTypes, err := json.Marshal(graph.OrderTypes())
	if err != nil {
		return GraphDTO{}, err
	}
	operatorFlow, err := marshalSteps(graph.Operator())
	if err != nil {
		return GraphDTO{}, err
	}
	courierFlow, err := marshalSteps(graph.Courier())
	if err != nil {
		return GraphDTO{}, err
	}

	var partnerID *uuid.UUID
	if id := graph.PartnerID(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	return GraphDTO{
		ID:           graph.ID().Bytes(),
		Name:         graph.Name(),
		Slug:         graph.Slug(),
		PartnerID:    partnerID,
		ProductType:  productType,
		OrderTypes:   orderTypes,
		OperatorFlow: operatorFlow,
		CourierFlow:  courierFlow,
	}, nil
}

// toDomain converts a database DTO to a delivery graph.
func toDomain(dto GraphDTO) (*deliverygraph.DeliveryGraph, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if pErr != nil {
			return nil, pErr
		}
		partnerID = &pID
	}

	var orderTypes []string
	if err = json.Unmarshal(dto.OrderTypes, &orderTypes); err != nil {
		return nil, err
	}

	operator, err := unmarshalSteps(dto.OperatorFlow)
	if err != nil {
		return nil, err
	}
	courier, err := unmarshalSteps(dto.CourierFlow)
	if err != nil {
		return nil, err
	}

	return deliverygraph.NewDeliveryGraph(id, dto.Name, dto.Slug, partnerID, orderTypes, operator, courier)
}

func marshalSteps(g deliverygraph.Graph) ([]byte, error) {
	steps := make([]stepDTO, 0, g.Len())
	for _, step := range g.Steps() {
		steps = append(steps, stepDTO{
			StatusID: step.StatusID.Bytes(),
			Slug:     string(step.Slug),
			Name:     step.Name,
			Icon:     step.Icon,
			Position: step.Position,
		})
	}
	return json.Marshal(steps)
}

func unmarshalSteps(raw []byte) (deliverygraph.Graph, error) {
	var dtos []stepDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return deliverygraph.Graph{}, err
	}

	steps := make([]deliverygraph.Step, 0, len(dtos))
	for _, dto := range dtos {
		statusID, err := kernel.UUIDFromBytes(dto.StatusID[:])
		if err != nil {
			return deliverygraph.Graph{}, err
		}
		steps = append(steps, deliverygraph.Step{
			StatusID: statusID,
			Slug:     status.Slug(dto.Slug),
			Name:     dto.Name,
			Icon:     dto.Icon,
			Position: dto.Position,
		})
	}
	return deliverygraph.NewGraph(steps)
}

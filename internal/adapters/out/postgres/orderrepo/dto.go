// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The checkpoint history and the exception track are stored
// inline on the order row; the delivery graph is referenced by identity and
// rehydrated through the graph repository.
package orderrepo

import (
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/status"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PartnerID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	GraphID                 uuid.UUID  `gorm:"type:uuid;not null"`
	CourierID               *uuid.UUID `gorm:"type:uuid;index"`
	AreaID                  *uuid.UUID `gorm:"type:uuid;index"`
	ProductType             string     `gorm:"type:varchar(32);not null"`
	OrderType               string     `gorm:"type:varchar(32);not null"`
	Latitude                float64    `gorm:"not null"`
	Longitude               float64    `gorm:"not null"`
	City                    string     `gorm:"type:varchar(128);not null;index"`
	Timezone                string     `gorm:"type:varchar(64)"`
	CurrentSlug             string     `gorm:"type:varchar(64);not null;index"`
	History                 []byte     `gorm:"type:jsonb;not null"`
	DeliveryStatus          *string    `gorm:"type:varchar(64);index"`
	DeliveryStatusReason    string     `gorm:"type:varchar(255)"`
	DeliveryStatusComment   string     `gorm:"type:text"`
	DeliveryStatusChangedAt *time.Time
	ActualDeliveryTime      *time.Time
	OTPExempt               bool `gorm:"not null;default:false"`
	Archived                bool `gorm:"not null;default:false;index"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// historyEntryDTO is the JSON shape of one checkpoint history entry.
type historyEntryDTO struct {
	StatusID  uuid.UUID `json:"status_id"`
	Slug      string    `json:"slug"`
	Timestamp time.Time `json:"timestamp"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	history := make([]historyEntryDTO, 0, len(aggregate.History()))
	for _, entry := range aggregate.History() {
		history = append(history, historyEntryDTO{
			StatusID:  entry.StatusID.Bytes(),
			Slug:      string(entry.Slug),
			Timestamp: entry.Timestamp,
		})
	}
	rawHistory, err := json.Marshal(history)
	if err != nil {
		return OrderDTO{}, err
	}

	var courierID, areaID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}
	if id := aggregate.AreaID(); id != nil {
		raw := id.Bytes()
		areaID = &raw
	}

	dto := OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		PartnerID:          aggregate.PartnerID().Bytes(),
		GraphID:            aggregate.Graph().ID().Bytes(),
		CourierID:          courierID,
		AreaID:             areaID,
		ProductType:        string(aggregate.ProductType()),
		OrderType:          string(aggregate.OrderType()),
		Latitude:           aggregate.DeliveryPoint().Latitude(),
		Longitude:          aggregate.DeliveryPoint().Longitude(),
		City:               aggregate.City(),
		Timezone:           aggregate.Timezone(),
		CurrentSlug:        string(aggregate.CurrentSlug()),
		History:            rawHistory,
		ActualDeliveryTime: aggregate.ActualDeliveryTime(),
		OTPExempt:          aggregate.IsOTPExempt(),
		Archived:           aggregate.IsArchived(),
	}

	ds := aggregate.DeliveryStatus()
	if !ds.IsEmpty() {
		value := string(*ds.Value())
		dto.DeliveryStatus = &value
		dto.DeliveryStatusReason = ds.Reason()
		dto.DeliveryStatusComment = ds.Comment()
		dto.DeliveryStatusChangedAt = ds.ChangedAt()
	}

	return dto, nil
}

// toDomain converts a database DTO to an order domain aggregate. The delivery
// graph referenced by the row must be supplied by the caller.
func toDomain(dto OrderDTO, graph *deliverygraph.DeliveryGraph) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}

	var courierID, areaID *kernel.UUID
	if dto.CourierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		courierID = &cID
	}
	if dto.AreaID != nil {
		aID, aErr := kernel.UUIDFromBytes((*dto.AreaID)[:])
		if aErr != nil {
			return nil, aErr
		}
		areaID = &aID
	}

	point, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	var rawHistory []historyEntryDTO
	if err = json.Unmarshal(dto.History, &rawHistory); err != nil {
		return nil, err
	}
	history := make([]order.HistoryEntry, 0, len(rawHistory))
	for _, entry := range rawHistory {
		statusID, sErr := kernel.UUIDFromBytes(entry.StatusID[:])
		if sErr != nil {
			return nil, sErr
		}
		history = append(history, order.HistoryEntry{
			StatusID:  statusID,
			Slug:      status.Slug(entry.Slug),
			Timestamp: entry.Timestamp,
		})
	}

	var dsValue *order.DeliveryStatusValue
	if dto.DeliveryStatus != nil {
		v := order.DeliveryStatusValue(*dto.DeliveryStatus)
		dsValue = &v
	}
	deliveryStatus := order.RestoreDeliveryStatus(
		dsValue, dto.DeliveryStatusReason, dto.DeliveryStatusComment, dto.DeliveryStatusChangedAt)

	return order.RestoreOrder(
		id, partnerID,
		order.ProductType(dto.ProductType), order.Type(dto.OrderType),
		graph, courierID, areaID, point,
		dto.City, dto.Timezone,
		history, deliveryStatus,
		dto.ActualDeliveryTime,
		dto.OTPExempt, dto.Archived,
	)
}

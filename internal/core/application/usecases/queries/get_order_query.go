// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read the database directly and return read models shaped for their
// use case, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the full read model of one order: identity, current
// checkpoint, history and the exception track.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order identity.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderHistoryEntryResponse is one checkpoint history record in the read model.
type OrderHistoryEntryResponse struct {
	Slug      string    `json:"slug"`
	Timestamp time.Time `json:"timestamp"`
}

// GetOrderQueryResponse represents the order read model.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	PartnerID             kernel.UUID
	CourierID             *kernel.UUID
	AreaID                *kernel.UUID
	ProductType           string
	OrderType             string
	DeliveryPoint         kernel.GeoPoint
	City                  string
	CurrentSlug           string
	History               []OrderHistoryEntryResponse
	DeliveryStatus        *string
	DeliveryStatusReason  string
	DeliveryStatusComment string
	ActualDeliveryTime    *time.Time
	Archived              bool
}

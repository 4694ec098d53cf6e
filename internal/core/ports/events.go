package ports

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/status"
)

// OrderStatusChangedEvent is emitted after every committed checkpoint change.
// External notifiers (push, SMS) and audit consumers subscribe to it.
type OrderStatusChangedEvent struct {
	OrderID        kernel.UUID                `json:"order_id"`
	PartnerID      kernel.UUID                `json:"partner_id"`
	StatusSlug     status.Slug                `json:"status"`
	DeliveryStatus *order.DeliveryStatusValue `json:"delivery_status,omitempty"`
	CourierID      *kernel.UUID               `json:"courier_id,omitempty"`
	OccurredAt     time.Time                  `json:"occurred_at"`
}

// OrderAssignedEvent is emitted when a courier takes over an order.
type OrderAssignedEvent struct {
	OrderID    kernel.UUID `json:"order_id"`
	CourierID  kernel.UUID `json:"courier_id"`
	AreaID     *kernel.UUID `json:"area_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// EventPublisher pushes domain events to the message broker. Publishing is
// best effort from the caller's perspective: failures are logged, never
// rolled into the originating transaction.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error
	PublishOrderAssigned(ctx context.Context, event OrderAssignedEvent) error
	Close() error
}

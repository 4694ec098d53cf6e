package ports

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
)

// CallbackTask is one pending partner webhook notification. Delivery is
// at-least-once; receivers deduplicate by order id plus status.
type CallbackTask struct {
	OrderID        kernel.UUID `json:"order_id"`
	PartnerID      kernel.UUID `json:"partner_id"`
	Status         string      `json:"status"`
	StatusDatetime time.Time   `json:"status_datetime"`
	Comment        string      `json:"comment,omitempty"`
	CardMask       string      `json:"card_mask,omitempty"`
	PhotoURLs      []string    `json:"photo_urls,omitempty"`
}

// CallbackDispatcher queues partner webhook notifications. Enqueue never
// blocks the state-machine transaction; workers drain the queue out of
// process.
type CallbackDispatcher interface {
	Enqueue(ctx context.Context, task CallbackTask) error
	Close() error
}

// CardDataProvider resolves the masked PAN of a card order for partner
// callbacks. Full card data never enters the core.
type CardDataProvider interface {
	MaskedPAN(ctx context.Context, orderID kernel.UUID) (string, error)
}

// HeaderProvider supplies the per-partner HTTP headers attached to callback
// requests (authentication schemes vary between partners).
type HeaderProvider interface {
	HeadersFor(partnerID kernel.UUID) map[string]string
}

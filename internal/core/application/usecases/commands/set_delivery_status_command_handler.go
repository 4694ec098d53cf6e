package commands

import (
	"context"
	"log/slog"
	"time"

	"lastmile/internal/core/ports"
)

// SetDeliveryStatusCommandHandler mutates the exception track of an order
// without touching its graph position.
type SetDeliveryStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	audit      ports.AuditHistory
	events     ports.EventPublisher
	callbacks  ports.CallbackDispatcher
	now        func() time.Time
	logger     *slog.Logger
}

// NewSetDeliveryStatusCommandHandler creates a handler for exception track changes.
func NewSetDeliveryStatusCommandHandler(
	uowFactory OrderUoWFactory,
	audit ports.AuditHistory,
	events ports.EventPublisher,
	callbacks ports.CallbackDispatcher,
	logger *slog.Logger,
) SetDeliveryStatusCommandHandler {
	return SetDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
		events:     events,
		callbacks:  callbacks,
		now:        time.Now,
		logger:     logger.With("component", "set_delivery_status"),
	}
}

// Handle sets or clears the delivery status under the per-order lock, then
// notifies the partner after commit.
func (h *SetDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd SetDeliveryStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if cmd.Value() == nil {
		err = aggregate.ClearDeliveryStatus()
	} else {
		err = aggregate.SetDeliveryStatus(*cmd.Value(), cmd.Reason(), cmd.Comment(), h.now())
	}
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	payload := map[string]any{"reason": cmd.Reason()}
	if cmd.Value() != nil {
		payload["delivery_status"] = string(*cmd.Value())
	}
	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "set_delivery_status",
		ModelType: "order",
		ModelID:   aggregate.ID(),
		Payload:   payload,
		Timestamp: h.now(),
	}); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.OrderStatusChangedEvent{
		OrderID:        aggregate.ID(),
		PartnerID:      aggregate.PartnerID(),
		StatusSlug:     aggregate.CurrentSlug(),
		DeliveryStatus: cmd.Value(),
		CourierID:      aggregate.CourierID(),
		OccurredAt:     h.now(),
	}
	if err = h.events.PublishStatusChanged(ctx, event); err != nil {
		h.logger.Error("delivery status event not published",
			"order_id", aggregate.ID().String(), "error", err)
	}

	if cmd.Value() != nil {
		task := ports.CallbackTask{
			OrderID:        aggregate.ID(),
			PartnerID:      aggregate.PartnerID(),
			Status:         string(*cmd.Value()),
			StatusDatetime: h.now(),
			Comment:        cmd.Comment(),
		}
		if err = h.callbacks.Enqueue(ctx, task); err != nil {
			h.logger.Error("partner callback not enqueued",
				"order_id", aggregate.ID().String(), "error", err)
		}
	}

	return nil
}

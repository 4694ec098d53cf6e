package commands

import (
	"context"
	"log/slog"
	"time"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/metrics"
)

// ApplyStatusCommandHandler drives the order state machine: it locks the
// order row, gathers precondition evidence, applies the transition and emits
// the resulting side effects after commit.
type ApplyStatusCommandHandler struct {
	uowFactory TransitionUoWFactory
	validator  services.StatusTransitionValidator
	otp        ports.OTPProvider
	audit      ports.AuditHistory
	events     ports.EventPublisher
	callbacks  ports.CallbackDispatcher
	cards      ports.CardDataProvider
	now        func() time.Time
	logger     *slog.Logger
}

// NewApplyStatusCommandHandler creates a handler for checkpoint transitions.
// cards may be nil when no card vault integration is configured.
func NewApplyStatusCommandHandler(
	uowFactory TransitionUoWFactory,
	otp ports.OTPProvider,
	audit ports.AuditHistory,
	events ports.EventPublisher,
	callbacks ports.CallbackDispatcher,
	cards ports.CardDataProvider,
	logger *slog.Logger,
) ApplyStatusCommandHandler {
	return ApplyStatusCommandHandler{
		uowFactory: uowFactory,
		validator:  services.NewStatusTransitionValidator(),
		otp:        otp,
		audit:      audit,
		events:     events,
		callbacks:  callbacks,
		cards:      cards,
		now:        time.Now,
		logger:     logger.With("component", "apply_status"),
	}
}

// Handle applies a checkpoint transition atomically. The order row is locked
// for the duration of the transaction; the audit record commits with it.
// Event publication and callback dispatch run after commit and never roll the
// transition back.
func (h *ApplyStatusCommandHandler) Handle(ctx context.Context, cmd ApplyStatusCommand) error {
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

	partnerID := aggregate.PartnerID()
	target, err := uow.StatusRepository().GetBySlug(ctx, cmd.StatusSlug(), &partnerID)
	if err != nil {
		return err
	}

	facts, err := h.gatherFacts(ctx, uow, aggregate)
	if err != nil {
		return err
	}

	if violations := h.validator.CanTransition(aggregate, target.Slug(), facts); len(violations) > 0 {
		metrics.RejectedTransitions.WithLabelValues("precondition").Inc()
		return &InvalidTransitionError{Violations: violations}
	}

	change, err := aggregate.ApplyStatus(target, h.now())
	if err != nil {
		metrics.RejectedTransitions.WithLabelValues("state_machine").Inc()
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "apply_status",
		ModelType: "order",
		ModelID:   aggregate.ID(),
		Payload:   map[string]any{"status": string(change.Slug)},
		Timestamp: change.OccurredAt,
	}); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.StatusTransitions.WithLabelValues(string(change.Slug)).Inc()
	h.emitSideEffects(ctx, aggregate, change)

	return nil
}

// gatherFacts collects the external evidence the validator needs for the
// order's current configuration.
func (h *ApplyStatusCommandHandler) gatherFacts(
	ctx context.Context,
	uow TransitionUoW,
	aggregate *order.Order,
) (services.TransitionFacts, error) {
	otpState, err := h.otp.GetState(ctx, aggregate.ID())
	if err != nil {
		return services.TransitionFacts{}, err
	}

	configs, err := uow.PostControlRepository().GetConfigs(
		ctx, aggregate.ProductType(), postcontrol.PostControlPurpose)
	if err != nil {
		return services.TransitionFacts{}, err
	}

	documents, err := uow.PostControlRepository().GetDocumentsByOrder(ctx, aggregate.ID())
	if err != nil {
		return services.TransitionFacts{}, err
	}

	return services.TransitionFacts{
		OTPCreated:   otpState.Created,
		OTPConfirmed: otpState.Confirmed(),
		PostControl:  postcontrol.Summarize(configs, documents),
	}, nil
}

// emitSideEffects publishes the status-changed event and queues the partner
// callback. Failures here are logged only.
func (h *ApplyStatusCommandHandler) emitSideEffects(
	ctx context.Context,
	aggregate *order.Order,
	change *order.StatusChange,
) {
	event := ports.OrderStatusChangedEvent{
		OrderID:        aggregate.ID(),
		PartnerID:      aggregate.PartnerID(),
		StatusSlug:     change.Slug,
		DeliveryStatus: change.DeliveryStatus,
		CourierID:      aggregate.CourierID(),
		OccurredAt:     change.OccurredAt,
	}
	if err := h.events.PublishStatusChanged(ctx, event); err != nil {
		h.logger.Error("status changed event not published",
			"order_id", aggregate.ID().String(), "error", err)
	}

	task := ports.CallbackTask{
		OrderID:        aggregate.ID(),
		PartnerID:      aggregate.PartnerID(),
		Status:         string(change.Slug),
		StatusDatetime: change.OccurredAt,
	}
	if change.Slug == status.Delivered && aggregate.ProductType().IsCard() && h.cards != nil {
		mask, err := h.cards.MaskedPAN(ctx, aggregate.ID())
		if err != nil {
			h.logger.Error("masked card data unavailable",
				"order_id", aggregate.ID().String(), "error", err)
		} else {
			task.CardMask = mask
		}
	}
	if err := h.callbacks.Enqueue(ctx, task); err != nil {
		h.logger.Error("partner callback not enqueued",
			"order_id", aggregate.ID().String(), "error", err)
	}
}

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
	"lastmile/internal/pkg/errs"
)

// ResolvePostControlCommandHandler applies review decisions to an order's
// verification documents and drives the follow-up: declines push the order
// onto the finalization track, a bank decline additionally rolls the bank
// review entry out of history, and full acceptance advances the order to its
// terminal checkpoint.
type ResolvePostControlCommandHandler struct {
	uowFactory TransitionUoWFactory
	validator  services.StatusTransitionValidator
	audit      ports.AuditHistory
	events     ports.EventPublisher
	callbacks  ports.CallbackDispatcher
	now        func() time.Time
	logger     *slog.Logger
}

// NewResolvePostControlCommandHandler creates a handler for post-control review.
func NewResolvePostControlCommandHandler(
	uowFactory TransitionUoWFactory,
	audit ports.AuditHistory,
	events ports.EventPublisher,
	callbacks ports.CallbackDispatcher,
	logger *slog.Logger,
) ResolvePostControlCommandHandler {
	return ResolvePostControlCommandHandler{
		uowFactory: uowFactory,
		validator:  services.NewStatusTransitionValidator(),
		audit:      audit,
		events:     events,
		callbacks:  callbacks,
		now:        time.Now,
		logger:     logger.With("component", "resolve_postcontrol"),
	}
}

// Handle applies all decisions atomically under the per-order lock. Bulk
// shortcuts against an order already cancelled at the client are a no-op.
func (h *ResolvePostControlCommandHandler) Handle(ctx context.Context, cmd ResolvePostControlCommand) error {
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

	if (cmd.IsAcceptAll() || cmd.IsDeclineAll()) && aggregate.DeliveryStatus().Is(order.CancelledAtClient) {
		return nil
	}

	documents, err := uow.PostControlRepository().GetDocumentsByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.applyResolutions(cmd, documents); err != nil {
		return err
	}
	for _, doc := range documents {
		if err = uow.PostControlRepository().UpdateDocument(ctx, doc); err != nil {
			return err
		}
	}

	configs, err := uow.PostControlRepository().GetConfigs(
		ctx, aggregate.ProductType(), postcontrol.PostControlPurpose)
	if err != nil {
		return err
	}
	summary := postcontrol.Summarize(configs, documents)

	var change *order.StatusChange
	switch {
	case summary.AnyBankDecl:
		if err = aggregate.SetDeliveryStatus(
			order.BeingFinalizedAtCS, "bank declined", cmd.BulkComment(), h.now()); err != nil {
			return err
		}
		if err = aggregate.RollbackTo(status.PostControlBank, true, h.now()); err != nil {
			return err
		}

	case summary.AnyDeclined:
		if err = aggregate.SetDeliveryStatus(
			order.BeingFinalized, "documents declined", cmd.BulkComment(), h.now()); err != nil {
			return err
		}

	default:
		change, err = h.tryComplete(ctx, uow, aggregate, summary)
		if err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.audit.Record(ctx, ports.AuditRecord{
		Initiator: cmd.ActorID(),
		Role:      cmd.ActorRole(),
		Method:    "resolve_postcontrol",
		ModelType: "order",
		ModelID:   aggregate.ID(),
		Payload: map[string]any{
			"accepted":  summary.AcceptedCount,
			"leaves":    summary.LeafCount,
			"declined":  summary.AnyDeclined,
			"bank_decl": summary.AnyBankDecl,
		},
		Timestamp: h.now(),
	}); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.emitSideEffects(ctx, aggregate, change, documents)
	return nil
}

// applyResolutions mutates the loaded documents in place. Bulk modes touch
// only documents still pending.
func (h *ResolvePostControlCommandHandler) applyResolutions(
	cmd ResolvePostControlCommand,
	documents []*postcontrol.Document,
) error {
	now := h.now()

	switch {
	case cmd.IsAcceptAll():
		for _, doc := range documents {
			if doc.Resolution() != postcontrol.Pending {
				continue
			}
			if err := doc.Resolve(postcontrol.Accepted, "", cmd.ActorID(), now); err != nil {
				return err
			}
		}

	case cmd.IsDeclineAll():
		for _, doc := range documents {
			if doc.Resolution() != postcontrol.Pending {
				continue
			}
			if err := doc.Resolve(postcontrol.Declined, cmd.BulkComment(), cmd.ActorID(), now); err != nil {
				return err
			}
		}

	default:
		byID := make(map[string]*postcontrol.Document, len(documents))
		for _, doc := range documents {
			byID[doc.ID().String()] = doc
		}
		for _, r := range cmd.Resolutions() {
			doc, ok := byID[r.DocumentID.String()]
			if !ok {
				return errs.NewObjectNotFoundError("document", r.DocumentID.String())
			}
			if err := doc.Resolve(r.Resolution, r.Comment, cmd.ActorID(), now); err != nil {
				return err
			}
		}
	}

	return nil
}

// tryComplete advances the order to its terminal checkpoint when every leaf
// requirement is satisfied. Pickup orders end in issued, everything else in
// delivered.
func (h *ResolvePostControlCommandHandler) tryComplete(
	ctx context.Context,
	uow TransitionUoW,
	aggregate *order.Order,
	summary postcontrol.Summary,
) (*order.StatusChange, error) {
	terminal := status.Delivered
	if aggregate.OrderType() == order.Pickup {
		terminal = status.Issued
	}

	facts := services.TransitionFacts{PostControl: summary}
	if len(h.validator.CanTransition(aggregate, terminal, facts)) > 0 {
		return nil, nil
	}
	if !aggregate.Graph().Operator().Contains(terminal) || aggregate.CurrentSlug() == terminal {
		return nil, nil
	}

	partnerID := aggregate.PartnerID()
	target, err := uow.StatusRepository().GetBySlug(ctx, terminal, &partnerID)
	if err != nil {
		return nil, err
	}

	return aggregate.ApplyStatus(target, h.now())
}

// emitSideEffects publishes the terminal transition and forwards accepted
// document images to the partner photo channel.
func (h *ResolvePostControlCommandHandler) emitSideEffects(
	ctx context.Context,
	aggregate *order.Order,
	change *order.StatusChange,
	documents []*postcontrol.Document,
) {
	if change == nil {
		return
	}

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

	var photos []string
	for _, doc := range documents {
		if doc.Resolution().IsAccepting() {
			photos = append(photos, doc.ImageKey())
		}
	}
	task := ports.CallbackTask{
		OrderID:        aggregate.ID(),
		PartnerID:      aggregate.PartnerID(),
		Status:         string(change.Slug),
		StatusDatetime: change.OccurredAt,
		PhotoURLs:      photos,
	}
	if err := h.callbacks.Enqueue(ctx, task); err != nil {
		h.logger.Error("partner callback not enqueued",
			"order_id", aggregate.ID().String(), "error", err)
	}
}

package commands

import (
	"context"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/core/domain/model/status"
)

// CreatePostControlDocumentCommandHandler stores one uploaded verification
// image, enforcing the product's requirement tree and the per-config cap.
type CreatePostControlDocumentCommandHandler struct {
	uowFactory TransitionUoWFactory
	now        func() time.Time
}

// NewCreatePostControlDocumentCommandHandler creates a handler for document uploads.
func NewCreatePostControlDocumentCommandHandler(
	uowFactory TransitionUoWFactory,
) CreatePostControlDocumentCommandHandler {
	return CreatePostControlDocumentCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle rejects the upload when the order's product has no verification
// requirements, or the target config already holds its maximum number of
// documents for this order.
func (h *CreatePostControlDocumentCommandHandler) Handle(
	ctx context.Context,
	cmd CreatePostControlDocumentCommand,
) error {
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

	configs, err := uow.PostControlRepository().GetConfigs(
		ctx, aggregate.ProductType(), postcontrol.PostControlPurpose)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotSubjectToPostControl, aggregate.ProductType())
	}

	config, err := uow.PostControlRepository().GetConfig(ctx, cmd.ConfigID())
	if err != nil {
		return err
	}

	documents, err := uow.PostControlRepository().GetDocumentsByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if postcontrol.CountDocumentsForConfig(documents, config.ID()) >= config.DocumentsLimit() {
		return fmt.Errorf("%w: config %s", postcontrol.ErrDocumentLimitExceeded, config.ID().String())
	}

	document, err := postcontrol.NewDocument(
		cmd.DocumentID(), cmd.OrderID(), config.ID(), cmd.ImageKey(), h.now())
	if err != nil {
		return err
	}

	if err = uow.PostControlRepository().AddDocument(ctx, document); err != nil {
		return err
	}

	// A fresh document supersedes a bank rejection: the order returns to the
	// post-control checkpoint and the bank entry leaves the history.
	if aggregate.CurrentSlug() == status.PostControlBank {
		if err = aggregate.RollbackTo(status.PostControlBank, true, h.now()); err != nil {
			return err
		}
		if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

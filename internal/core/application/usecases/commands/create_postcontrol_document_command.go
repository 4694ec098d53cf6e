package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrCreatePostControlDocumentCommandIsNotConstructed = errors.New(
		"CreatePostControlDocumentCommand must be created via its constructor",
	)

	// ErrProductNotSubjectToPostControl is returned when the order's product
	// has no verification requirements configured.
	ErrProductNotSubjectToPostControl = errors.New("product is not subject to post-control")
)

// CreatePostControlDocumentCommand represents an upload of one verification
// image for an order against a config node.
type CreatePostControlDocumentCommand struct { //nolint:recvcheck //using for validation
	documentID kernel.UUID
	orderID    kernel.UUID
	configID   kernel.UUID
	imageKey   string

	guard guard.ConstructorGuard
}

// NewCreatePostControlDocumentCommand creates a document upload command.
func NewCreatePostControlDocumentCommand(
	documentID, orderID, configID kernel.UUID,
	imageKey string,
) (CreatePostControlDocumentCommand, error) {
	if err := errors.Join(documentID.Validate(), orderID.Validate(), configID.Validate()); err != nil {
		return CreatePostControlDocumentCommand{}, err
	}
	if imageKey == "" {
		return CreatePostControlDocumentCommand{}, errs.NewValueIsRequiredError("imageKey")
	}

	return CreatePostControlDocumentCommand{
		documentID: documentID,
		orderID:    orderID,
		configID:   configID,
		imageKey:   imageKey,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePostControlDocumentCommand) Validate() error {
	return c.guard.Validate(ErrCreatePostControlDocumentCommandIsNotConstructed)
}

// DocumentID returns the identifier for the new document.
func (c CreatePostControlDocumentCommand) DocumentID() kernel.UUID { return c.documentID }

// OrderID returns the owning order.
func (c CreatePostControlDocumentCommand) OrderID() kernel.UUID { return c.orderID }

// ConfigID returns the requirement the upload satisfies.
func (c CreatePostControlDocumentCommand) ConfigID() kernel.UUID { return c.configID }

// ImageKey returns the storage key of the uploaded image.
func (c CreatePostControlDocumentCommand) ImageKey() string { return c.imageKey }

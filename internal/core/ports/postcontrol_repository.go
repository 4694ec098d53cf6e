package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
)

// PostControlRepository defines the persistence contract for verification
// configs and documents.
type PostControlRepository interface {
	// GetConfigs retrieves the full requirement tree for a product and purpose.
	GetConfigs(
		ctx context.Context,
		productType order.ProductType,
		purpose postcontrol.Purpose,
	) ([]*postcontrol.Config, error)

	// GetConfig retrieves a single config node by identifier.
	GetConfig(ctx context.Context, id kernel.UUID) (*postcontrol.Config, error)

	// AddDocument persists a new uploaded document.
	AddDocument(ctx context.Context, document *postcontrol.Document) error

	// UpdateDocument persists a document's review state.
	UpdateDocument(ctx context.Context, document *postcontrol.Document) error

	// GetDocument retrieves a document by identifier.
	GetDocument(ctx context.Context, id kernel.UUID) (*postcontrol.Document, error)

	// GetDocumentsByOrder retrieves all documents uploaded for an order.
	GetDocumentsByOrder(ctx context.Context, orderID kernel.UUID) ([]*postcontrol.Document, error)

	// DeleteDocumentsByOrder removes an order's documents, used when an order
	// is restored to its initial state.
	DeleteDocumentsByOrder(ctx context.Context, orderID kernel.UUID) error
}

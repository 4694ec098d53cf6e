package queries

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var (
	ErrGetPostControlDocumentsQueryIsNotConstructed = errors.New(
		"GetPostControlDocumentsQuery must be created via NewGetPostControlDocumentsQuery constructor",
	)
)

// GetPostControlDocumentsQuery retrieves an order's uploaded verification
// documents together with the requirement each one satisfies.
type GetPostControlDocumentsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPostControlDocumentsQuery creates a query for the given order.
func NewGetPostControlDocumentsQuery(orderID kernel.UUID) (GetPostControlDocumentsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetPostControlDocumentsQuery{}, err
	}

	return GetPostControlDocumentsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPostControlDocumentsQuery) Validate() error {
	return q.guard.Validate(ErrGetPostControlDocumentsQueryIsNotConstructed)
}

// OrderID returns the order whose documents are requested.
func (q GetPostControlDocumentsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetPostControlDocumentsQueryResponse represents one uploaded document in the
// read model.
type GetPostControlDocumentsQueryResponse struct {
	ID         kernel.UUID
	ConfigID   kernel.UUID
	ConfigName string
	ImageKey   string
	Resolution string
	Comment    string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

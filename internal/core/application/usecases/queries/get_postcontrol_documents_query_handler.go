package queries

import (
	"context"
	"database/sql"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPostControlDocumentsQueryHandler retrieves an order's verification
// documents joined with their requirement names.
type GetPostControlDocumentsQueryHandler struct {
	db *gorm.DB
}

// NewGetPostControlDocumentsQueryHandler creates a handler for document queries.
func NewGetPostControlDocumentsQueryHandler(db *gorm.DB) GetPostControlDocumentsQueryHandler {
	return GetPostControlDocumentsQueryHandler{db: db}
}

// Handle executes the query to retrieve the order's documents in upload order.
func (h GetPostControlDocumentsQueryHandler) Handle(
	ctx context.Context,
	query GetPostControlDocumentsQuery,
) ([]GetPostControlDocumentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	documents := make([]GetPostControlDocumentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.config_id,
			c.name,
			d.image_key,
			d.resolution,
			d.comment,
			d.created_at,
			d.resolved_at
		FROM postcontrol_documents d
		JOIN postcontrol_configs c ON c.id = d.config_id
		WHERE d.order_id = ?
		ORDER BY d.created_at
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, configID uuid.UUID
			resolvedAt   sql.NullTime
			resp         GetPostControlDocumentsQueryResponse
		)
		err = rows.Scan(
			&id,
			&configID,
			&resp.ConfigName,
			&resp.ImageKey,
			&resp.Resolution,
			&resp.Comment,
			&resp.CreatedAt,
			&resolvedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.ConfigID, err = kernel.UUIDFromBytes(configID[:]); err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			value := resolvedAt.Time
			resp.ResolvedAt = &value
		}

		documents = append(documents, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return documents, nil
}

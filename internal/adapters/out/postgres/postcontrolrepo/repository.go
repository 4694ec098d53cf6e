package postcontrolrepo

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPostControlRepository implements ports.PostControlRepository using GORM.
type GormPostControlRepository struct {
	db *gorm.DB
}

// NewGormPostControlRepository creates a new GORM post-control repository.
func NewGormPostControlRepository(db *gorm.DB) *GormPostControlRepository {
	return &GormPostControlRepository{db: db}
}

// AddConfig persists a requirement node. Configs are seeded configuration.
func (r *GormPostControlRepository) AddConfig(ctx context.Context, config *postcontrol.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	dto := configFromDomain(config)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetConfigs retrieves the full requirement tree for a product and purpose.
// Parents come before children so callers can rebuild the tree in one pass.
func (r *GormPostControlRepository) GetConfigs(
	ctx context.Context,
	productType order.ProductType,
	purpose postcontrol.Purpose,
) ([]*postcontrol.Config, error) {
	var dtos []ConfigDTO
	err := r.db.WithContext(ctx).
		Where("product_type = ? AND purpose = ?", string(productType), string(purpose)).
		Order("parent_id NULLS FIRST, name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	configs := make([]*postcontrol.Config, 0, len(dtos))
	for _, dto := range dtos {
		config, cErr := configToDomain(dto)
		if cErr != nil {
			return nil, cErr
		}
		configs = append(configs, config)
	}

	return configs, nil
}

// GetConfig retrieves a single config node by identifier.
func (r *GormPostControlRepository) GetConfig(ctx context.Context, id kernel.UUID) (*postcontrol.Config, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ConfigDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("post-control config", id.String())
		}
		return nil, err
	}

	return configToDomain(dto)
}

// AddDocument persists a new uploaded document.
func (r *GormPostControlRepository) AddDocument(ctx context.Context, document *postcontrol.Document) error {
	if err := document.Validate(); err != nil {
		return err
	}

	dto := documentFromDomain(document)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateDocument persists a document's review state.
func (r *GormPostControlRepository) UpdateDocument(ctx context.Context, document *postcontrol.Document) error {
	if err := document.Validate(); err != nil {
		return err
	}

	dto := documentFromDomain(document)
	result := r.db.WithContext(ctx).
		Model(&DocumentDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("post-control document", document.ID().String())
	}

	return nil
}

// GetDocument retrieves a document by identifier.
func (r *GormPostControlRepository) GetDocument(ctx context.Context, id kernel.UUID) (*postcontrol.Document, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DocumentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("post-control document", id.String())
		}
		return nil, err
	}

	return documentToDomain(dto)
}

// GetDocumentsByOrder retrieves all documents uploaded for an order in upload
// order.
func (r *GormPostControlRepository) GetDocumentsByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*postcontrol.Document, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DocumentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	documents := make([]*postcontrol.Document, 0, len(dtos))
	for _, dto := range dtos {
		document, dErr := documentToDomain(dto)
		if dErr != nil {
			return nil, dErr
		}
		documents = append(documents, document)
	}

	return documents, nil
}

// DeleteDocumentsByOrder removes an order's documents.
func (r *GormPostControlRepository) DeleteDocumentsByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Delete(&DocumentDTO{}).Error
}

package graphrepo

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryGraphRepository implements ports.DeliveryGraphRepository using GORM.
type GormDeliveryGraphRepository struct {
	db *gorm.DB
}

// NewGormDeliveryGraphRepository creates a new GORM delivery graph repository.
func NewGormDeliveryGraphRepository(db *gorm.DB) *GormDeliveryGraphRepository {
	return &GormDeliveryGraphRepository{db: db}
}

// Add persists a graph definition. Graphs are seeded configuration; there is
// no domain command creating them.
func (r *GormDeliveryGraphRepository) Add(
	ctx context.Context,
	graph *deliverygraph.DeliveryGraph,
	productType order.ProductType,
) error {
	if err := graph.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(graph, string(productType))
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a delivery graph by ID.
func (r *GormDeliveryGraphRepository) Get(ctx context.Context, id kernel.UUID) (*deliverygraph.DeliveryGraph, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto GraphDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery graph", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForOrder retrieves the graph serving the given product and order type.
// A partner-scoped graph wins over a shared one.
func (r *GormDeliveryGraphRepository) GetForOrder(
	ctx context.Context,
	productType order.ProductType,
	orderType order.Type,
	partnerID kernel.UUID,
) (*deliverygraph.DeliveryGraph, error) {
	if err := partnerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []GraphDTO
	err := r.db.WithContext(ctx).
		Where("product_type = ?", string(productType)).
		Where("partner_id = ? OR partner_id IS NULL", partnerID.Bytes()).
		Order("partner_id NULLS LAST").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		graph, gErr := toDomain(dto)
		if gErr != nil {
			return nil, gErr
		}
		if graph.ServesOrderType(string(orderType)) {
			return graph, nil
		}
	}

	return nil, errs.NewObjectNotFoundError(
		"delivery graph", string(productType)+"/"+string(orderType))
}

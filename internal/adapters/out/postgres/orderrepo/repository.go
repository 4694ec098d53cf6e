package orderrepo

import (
	"context"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgLockNotAvailable is the SQLSTATE reported when FOR UPDATE NOWAIT loses.
const pgLockNotAvailable = "55P03"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	graphs  graphLoader
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// graphLoader resolves the delivery graph referenced by an order row.
type graphLoader interface {
	Get(ctx context.Context, id kernel.UUID) (*deliverygraph.DeliveryGraph, error)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker, graphs graphLoader) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
		graphs:  graphs,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// Select("*") forces nil-able columns (courier, delivery status) to be
	// written even when cleared.
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.restore(ctx, dto)
}

// GetForUpdate retrieves an order under FOR UPDATE NOWAIT. A row already
// locked by a concurrent transaction surfaces as ErrConcurrentModification.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return nil, ports.ErrConcurrentModification
		}
		return nil, err
	}

	return r.restore(ctx, dto)
}

// GetUnassignedByArea retrieves open, unassigned orders of an area.
func (r *GormOrderRepository) GetUnassignedByArea(ctx context.Context, areaID kernel.UUID) ([]*order.Order, error) {
	if err := areaID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("area_id = ?", areaID.Bytes()).
		Where("courier_id IS NULL").
		Where("archived = false").
		Where("current_slug NOT IN ?", terminalSlugs()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(ctx, dtos)
}

// GetOpenByCourierOnDay retrieves a courier's open orders created on the given
// day, the committed stop set used by distribution.
func (r *GormOrderRepository) GetOpenByCourierOnDay(
	ctx context.Context,
	courierID kernel.UUID,
	day time.Time,
) ([]*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID.Bytes()).
		Where("archived = false").
		Where("current_slug NOT IN ?", terminalSlugs()).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(ctx, dtos)
}

// GetCompletedBefore retrieves finished, not yet archived orders whose
// completion stamp is older than the cutoff.
func (r *GormOrderRepository) GetCompletedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("archived = false").
		Where("current_slug IN ?", terminalSlugs()).
		Where("actual_delivery_time IS NOT NULL AND actual_delivery_time < ?", cutoff).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(ctx, dtos)
}

// CountOpenByArea counts unfinished orders referencing the area, assigned or
// not. Area archival uses it as its guard.
func (r *GormOrderRepository) CountOpenByArea(ctx context.Context, areaID kernel.UUID) (int64, error) {
	if err := areaID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("area_id = ?", areaID.Bytes()).
		Where("archived = false").
		Where("current_slug NOT IN ?", terminalSlugs()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) restore(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	graphID, err := kernel.UUIDFromBytes(dto.GraphID[:])
	if err != nil {
		return nil, err
	}
	graph, err := r.graphs.Get(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return toDomain(dto, graph)
}

func (r *GormOrderRepository) restoreAll(ctx context.Context, dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := r.restore(ctx, dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func terminalSlugs() []string {
	return []string{"delivered", "issued", "ended"}
}

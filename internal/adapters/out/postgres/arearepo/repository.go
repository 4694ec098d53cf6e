package arearepo

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/area"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAreaRepository implements ports.AreaRepository using GORM.
type GormAreaRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAreaRepository creates a new GORM area repository.
func NewGormAreaRepository(db *gorm.DB, tracker aggregateTracker) *GormAreaRepository {
	return &GormAreaRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new area to the database.
func (r *GormAreaRepository) Add(ctx context.Context, aggregate *area.Area) error {
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

// Update saves an existing area to the database.
func (r *GormAreaRepository) Update(ctx context.Context, aggregate *area.Area) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&AreaDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("area", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an area by ID.
func (r *GormAreaRepository) Get(ctx context.Context, id kernel.UUID) (*area.Area, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AreaDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("area", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByPartnerAndCity retrieves non-archived areas of a partner in a
// city. Creation order matters: point resolution takes the first polygon match.
func (r *GormAreaRepository) GetActiveByPartnerAndCity(
	ctx context.Context,
	partnerID kernel.UUID,
	city string,
) ([]*area.Area, error) {
	if err := partnerID.Validate(); err != nil {
		return nil, err
	}
	if city == "" {
		return nil, errs.NewValueIsRequiredError("city")
	}

	var dtos []AreaDTO
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND city = ? AND archived = false", partnerID.Bytes(), city).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	areas := make([]*area.Area, 0, len(dtos))
	for _, dto := range dtos {
		a, aErr := toDomain(dto)
		if aErr != nil {
			return nil, aErr
		}
		areas = append(areas, a)
	}

	return areas, nil
}

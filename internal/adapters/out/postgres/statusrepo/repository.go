package statusrepo

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStatusRepository implements ports.StatusRepository using GORM.
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GORM status repository.
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// Add persists a checkpoint definition. The catalogue is seeded configuration.
func (r *GormStatusRepository) Add(ctx context.Context, s *status.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a status by ID.
func (r *GormStatusRepository) Get(ctx context.Context, id kernel.UUID) (*status.Status, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StatusDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("status", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBySlug retrieves a status by slug. A partner-scoped definition wins over
// the global one.
func (r *GormStatusRepository) GetBySlug(
	ctx context.Context,
	slug status.Slug,
	partnerID *kernel.UUID,
) (*status.Status, error) {
	query := r.db.WithContext(ctx).Where("slug = ?", string(slug))
	if partnerID != nil {
		query = query.
			Where("partner_id = ? OR partner_id IS NULL", partnerID.Bytes()).
			Order("partner_id NULLS LAST")
	} else {
		query = query.Where("partner_id IS NULL")
	}

	var dto StatusDTO
	if err := query.First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("status", string(slug))
		}
		return nil, err
	}

	return toDomain(dto)
}

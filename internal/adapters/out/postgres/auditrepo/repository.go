package auditrepo

import (
	"context"

	"lastmile/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuditHistory implements ports.AuditHistory using GORM.
type GormAuditHistory struct {
	db *gorm.DB
}

// NewGormAuditHistory creates a new GORM audit history.
func NewGormAuditHistory(db *gorm.DB) *GormAuditHistory {
	return &GormAuditHistory{db: db}
}

// Record appends one audit trail entry. A failed append must abort the
// caller's transaction, so the error is returned as is.
func (h *GormAuditHistory) Record(ctx context.Context, record ports.AuditRecord) error {
	dto, err := fromDomain(record)
	if err != nil {
		return err
	}

	return h.db.WithContext(ctx).Create(&dto).Error
}

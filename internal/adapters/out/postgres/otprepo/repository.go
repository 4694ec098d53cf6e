// Package otprepo reads the OTP confirmation records written by the messaging
// pipeline. The core never creates or confirms codes itself.
package otprepo

import (
	"context"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OTPRecordDTO represents the database structure for OTP confirmation records.
type OTPRecordDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time `gorm:"not null"`
	ConfirmedAt *time.Time
}

// TableName specifies the database table name for OTP records.
func (OTPRecordDTO) TableName() string {
	return "otp_records"
}

// GormOTPProvider implements ports.OTPProvider using GORM.
type GormOTPProvider struct {
	db *gorm.DB
}

// NewGormOTPProvider creates a new GORM OTP provider.
func NewGormOTPProvider(db *gorm.DB) *GormOTPProvider {
	return &GormOTPProvider{db: db}
}

// GetState looks up the OTP record of an order. A missing row means no code
// was ever issued, which is a valid state, not an error.
func (p *GormOTPProvider) GetState(ctx context.Context, orderID kernel.UUID) (ports.OTPState, error) {
	if err := orderID.Validate(); err != nil {
		return ports.OTPState{}, err
	}

	var dto OTPRecordDTO
	err := p.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.OTPState{}, nil
		}
		return ports.OTPState{}, err
	}

	return ports.OTPState{
		Created:     true,
		ConfirmedAt: dto.ConfirmedAt,
	}, nil
}

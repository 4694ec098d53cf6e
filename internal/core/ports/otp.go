package ports

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
)

// OTPState is the confirmation evidence attached to an order. SMS delivery
// itself happens out of process; the core only reads the record back.
type OTPState struct {
	Created     bool
	ConfirmedAt *time.Time
}

// Confirmed reports whether the client entered the code successfully.
func (s OTPState) Confirmed() bool {
	return s.ConfirmedAt != nil
}

// OTPProvider looks up the OTP record of an order.
type OTPProvider interface {
	GetState(ctx context.Context, orderID kernel.UUID) (OTPState, error)
}

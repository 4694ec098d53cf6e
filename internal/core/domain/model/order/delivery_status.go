package order

import (
	"time"

	"lastmile/internal/pkg/errs"
)

// DeliveryStatusValue enumerates the exception track of an order. It is
// orthogonal to the current checkpoint: an order keeps its graph position
// while, for example, being postponed or cancelled.
type DeliveryStatusValue string

const (
	OnTheWayToCallPoint DeliveryStatusValue = "on-the-way-to-call-point"
	Postponed           DeliveryStatusValue = "postponed"
	Rescheduled         DeliveryStatusValue = "rescheduled"
	Noncall             DeliveryStatusValue = "noncall"
	Cancelled           DeliveryStatusValue = "cancelled"
	CancelledAtClient   DeliveryStatusValue = "cancelled_at_client"
	BeingFinalized      DeliveryStatusValue = "being_finalized"
	BeingFinalizedAtCS  DeliveryStatusValue = "being_finalized_at_cs"
	IsDelivered         DeliveryStatusValue = "is_delivered"
)

var knownDeliveryStatuses = map[DeliveryStatusValue]struct{}{
	OnTheWayToCallPoint: {},
	Postponed:           {},
	Rescheduled:         {},
	Noncall:             {},
	Cancelled:           {},
	CancelledAtClient:   {},
	BeingFinalized:      {},
	BeingFinalizedAtCS:  {},
	IsDelivered:         {},
}

// IsValid reports whether the value is a known delivery status.
func (v DeliveryStatusValue) IsValid() bool {
	_, ok := knownDeliveryStatuses[v]
	return ok
}

// String implements fmt.Stringer.
func (v DeliveryStatusValue) String() string {
	return string(v)
}

// DeliveryStatus is the exception record carried by an order. The zero value
// means no exception is active.
type DeliveryStatus struct {
	value     *DeliveryStatusValue
	reason    string
	comment   string
	changedAt *time.Time
}

// NewDeliveryStatus creates a populated exception record.
func NewDeliveryStatus(value DeliveryStatusValue, reason, comment string, changedAt time.Time) (DeliveryStatus, error) {
	if !value.IsValid() {
		return DeliveryStatus{}, errs.NewValueIsInvalidError("delivery status " + string(value))
	}

	return DeliveryStatus{
		value:     &value,
		reason:    reason,
		comment:   comment,
		changedAt: &changedAt,
	}, nil
}

// RestoreDeliveryStatus rebuilds a record from persistence without validation
// of the value against the known set, so historical data always loads.
func RestoreDeliveryStatus(value *DeliveryStatusValue, reason, comment string, changedAt *time.Time) DeliveryStatus {
	return DeliveryStatus{value: value, reason: reason, comment: comment, changedAt: changedAt}
}

// IsEmpty reports whether no exception is active.
func (d DeliveryStatus) IsEmpty() bool {
	return d.value == nil
}

// Value returns the active exception value, or nil.
func (d DeliveryStatus) Value() *DeliveryStatusValue {
	return d.value
}

// Is reports whether the active value equals v.
func (d DeliveryStatus) Is(v DeliveryStatusValue) bool {
	return d.value != nil && *d.value == v
}

// Reason returns the operator-supplied reason code.
func (d DeliveryStatus) Reason() string {
	return d.reason
}

// Comment returns the free-form comment.
func (d DeliveryStatus) Comment() string {
	return d.comment
}

// ChangedAt returns when the record was last set, or nil.
func (d DeliveryStatus) ChangedAt() *time.Time {
	return d.changedAt
}

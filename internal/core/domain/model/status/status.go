// Package status defines the checkpoint catalogue of the delivery workflow.
// A Status is a named checkpoint with a stable slug; delivery graphs reference
// statuses by slug to describe the legal progression for a product.
package status

import (
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// ErrStatusIsNotConstructed is returned when a Status instance was not created
// through the NewStatus factory method.
var ErrStatusIsNotConstructed = errors.New("Status must be created via NewStatus constructor")

// Slug is the stable string identifier of a checkpoint, independent of its
// database identity.
type Slug string

// Checkpoint slugs known to the workflow. Partner-specific statuses may add
// more; these are the ones the state machine attaches behavior to.
const (
	New                      Slug = "new"
	CourierAssigned          Slug = "courier-assigned"
	AcceptedByCourier        Slug = "accepted-by-courier"
	OnTheWay                 Slug = "on-the-way"
	AtTheCallPoint           Slug = "at-the-call-point"
	ContactWithCustomer      Slug = "contact-with-customer"
	SMSSent                  Slug = "sms-sent"
	ScanCard                 Slug = "scan-card"
	PhotoCapture             Slug = "photo-capture"
	PostControl              Slug = "post-control"
	PostControlBank          Slug = "post-control-bank"
	ReadyForShipment         Slug = "ready-for-shipment"
	AcceptedByCourierService Slug = "accepted-by-courier-service"
	Delivered                Slug = "delivered"
	Issued                   Slug = "issued"
	Ended                    Slug = "ended"
)

// IsTerminal reports whether the slug names a final checkpoint that accepts no
// further forward transitions.
func (s Slug) IsTerminal() bool {
	return s == Delivered || s == Issued || s == Ended
}

// String implements fmt.Stringer.
func (s Slug) String() string {
	return string(s)
}

// Status is a checkpoint entity. Partner scoping is optional: a nil partner ID
// means the status is global.
//
// After lists slugs that must already be present in an order's history before
// this status may be applied.
type Status struct {
	id        kernel.UUID
	slug      Slug
	name      string
	icon      string
	partnerID *kernel.UUID
	after     []Slug

	isConstructed bool
}

// NewStatus creates a Status with a validated identity and non-empty slug.
func NewStatus(id kernel.UUID, slug Slug, name, icon string, partnerID *kernel.UUID, after []Slug) (*Status, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, errs.NewValueIsRequiredError("slug")
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if partnerID != nil {
		if err := partnerID.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("partnerID", err)
		}
	}
	for i, dep := range after {
		if dep == "" {
			return nil, errs.NewValueIsInvalidError(fmt.Sprintf("after[%d]", i))
		}
	}

	return &Status{
		id:            id,
		slug:          slug,
		name:          name,
		icon:          icon,
		partnerID:     partnerID,
		after:         append([]Slug(nil), after...),
		isConstructed: true,
	}, nil
}

// Validate ensures the Status was created via NewStatus.
func (s *Status) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStatusIsNotConstructed
	}
	return nil
}

// ID returns the status identity.
func (s *Status) ID() kernel.UUID {
	return s.id
}

// Slug returns the stable checkpoint identifier.
func (s *Status) Slug() Slug {
	return s.slug
}

// Name returns the display name.
func (s *Status) Name() string {
	return s.name
}

// Icon returns the icon key shown by clients.
func (s *Status) Icon() string {
	return s.icon
}

// PartnerID returns the owning partner, or nil for a global status.
func (s *Status) PartnerID() *kernel.UUID {
	return s.partnerID
}

// After returns the dependency slugs that must precede this status.
func (s *Status) After() []Slug {
	return append([]Slug(nil), s.after...)
}

// IsEqual compares two statuses by identity.
func (s *Status) IsEqual(other *Status) bool {
	return other != nil && s.id.IsEqual(other.id)
}

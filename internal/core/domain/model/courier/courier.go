package courier

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrCourierIsInactive guards operations on deactivated couriers.
	ErrCourierIsInactive = errors.New("courier is inactive")
)

// Courier is a delivery agent employed by a courier-service partner. Area
// membership lives on the Area aggregate; the courier's open order set is
// derived from orders, not stored here.
type Courier struct {
	id        kernel.UUID
	name      string
	phone     string
	partnerID kernel.UUID
	city      string
	active    bool

	isConstructed bool
}

// NewCourier creates an active Courier.
func NewCourier(id kernel.UUID, name, phone string, partnerID kernel.UUID, city string) (*Courier, error) {
	if err := errors.Join(id.Validate(), partnerID.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if city == "" {
		return nil, errs.NewValueIsRequiredError("city")
	}

	return &Courier{
		id:            id,
		name:          name,
		phone:         phone,
		partnerID:     partnerID,
		city:          city,
		active:        true,
		isConstructed: true,
	}, nil
}

// RestoreCourier rebuilds a Courier from persistence.
func RestoreCourier(id kernel.UUID, name, phone string, partnerID kernel.UUID, city string, active bool) (*Courier, error) {
	c, err := NewCourier(id, name, phone, partnerID, city)
	if err != nil {
		return nil, err
	}

	c.active = active
	return c, nil
}

// Validate ensures the Courier was created via its constructors.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// IsEqual compares two couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier identity.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's display name.
func (c *Courier) Name() string { return c.name }

// Phone returns the contact phone.
func (c *Courier) Phone() string { return c.phone }

// PartnerID returns the employing courier-service partner.
func (c *Courier) PartnerID() kernel.UUID { return c.partnerID }

// City returns the courier's working city.
func (c *Courier) City() string { return c.city }

// IsActive reports whether the courier may receive assignments.
func (c *Courier) IsActive() bool { return c.active }

// Deactivate removes the courier from distribution.
func (c *Courier) Deactivate() {
	c.active = false
}

// Activate returns the courier to distribution.
func (c *Courier) Activate() {
	c.active = true
}

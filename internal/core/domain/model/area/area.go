// Package area models polygon-bounded service zones. Areas scope courier
// eligibility and order distribution: an order's delivery point resolves to
// the first area whose polygon contains it.
package area

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// ErrAreaIsNotConstructed is returned when an Area was not created through NewArea.
var ErrAreaIsNotConstructed = errors.New("Area must be created via NewArea constructor")

// ErrAreaIsArchived guards membership changes on archived areas.
var ErrAreaIsArchived = errors.New("area is archived")

// ErrAreaHasOpenOrders blocks archival while unfinished orders still
// reference the area.
var ErrAreaHasOpenOrders = errors.New("area has open orders")

// Area is a named polygon scoped to a partner and city. Couriers are
// many-to-many members of areas.
type Area struct {
	id        kernel.UUID
	name      string
	partnerID kernel.UUID
	city      string
	polygon   kernel.Polygon
	couriers  []kernel.UUID
	archived  bool

	isConstructed bool
}

// NewArea creates an Area with a validated polygon boundary.
func NewArea(
	id kernel.UUID,
	name string,
	partnerID kernel.UUID,
	city string,
	polygon kernel.Polygon,
) (*Area, error) {
	if err := errors.Join(id.Validate(), partnerID.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if city == "" {
		return nil, errs.NewValueIsRequiredError("city")
	}
	if err := polygon.Validate(); err != nil {
		return nil, err
	}

	return &Area{
		id:            id,
		name:          name,
		partnerID:     partnerID,
		city:          city,
		polygon:       polygon,
		isConstructed: true,
	}, nil
}

// RestoreArea rebuilds an Area from persistence, including courier membership
// and the archived flag.
func RestoreArea(
	id kernel.UUID,
	name string,
	partnerID kernel.UUID,
	city string,
	polygon kernel.Polygon,
	couriers []kernel.UUID,
	archived bool,
) (*Area, error) {
	a, err := NewArea(id, name, partnerID, city, polygon)
	if err != nil {
		return nil, err
	}

	a.couriers = append([]kernel.UUID(nil), couriers...)
	a.archived = archived
	return a, nil
}

// Validate ensures the Area was created via its constructors.
func (a *Area) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAreaIsNotConstructed
	}
	return nil
}

// ID returns the area identity.
func (a *Area) ID() kernel.UUID { return a.id }

// Name returns the display name.
func (a *Area) Name() string { return a.name }

// PartnerID returns the courier-service partner owning the area.
func (a *Area) PartnerID() kernel.UUID { return a.partnerID }

// City returns the city the area belongs to.
func (a *Area) City() string { return a.city }

// Polygon returns the boundary.
func (a *Area) Polygon() kernel.Polygon { return a.polygon }

// IsArchived reports whether the area is retired.
func (a *Area) IsArchived() bool { return a.archived }

// Couriers returns a copy of the member courier IDs.
func (a *Area) Couriers() []kernel.UUID {
	return append([]kernel.UUID(nil), a.couriers...)
}

// HasCourier reports whether the courier is a member of the area.
func (a *Area) HasCourier(courierID kernel.UUID) bool {
	for _, id := range a.couriers {
		if id.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// AddCourier adds a courier to the area membership. Adding an existing member
// is a no-op.
func (a *Area) AddCourier(courierID kernel.UUID) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	if a.archived {
		return ErrAreaIsArchived
	}
	if a.HasCourier(courierID) {
		return nil
	}

	a.couriers = append(a.couriers, courierID)
	return nil
}

// RemoveCourier removes a courier from the area membership.
func (a *Area) RemoveCourier(courierID kernel.UUID) error {
	if err := a.Validate(); err != nil {
		return err
	}

	for i, id := range a.couriers {
		if id.IsEqual(courierID) {
			a.couriers = append(a.couriers[:i], a.couriers[i+1:]...)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("courier in area", courierID)
}

// Contains reports whether the point lies inside the area boundary.
func (a *Area) Contains(point kernel.GeoPoint) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	return a.polygon.Contains(point)
}

// Archive retires the area from resolution and distribution.
func (a *Area) Archive() {
	a.archived = true
}

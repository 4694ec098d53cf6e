package services

import (
	"lastmile/internal/core/domain/model/area"
	"lastmile/internal/core/domain/model/order"
)

// AreaResolver maps an order's delivery point to a service area by polygon
// containment. Areas are not required to be disjoint; the first match in the
// supplied iteration order wins, which keeps resolution deterministic for
// overlapping polygons.
type AreaResolver struct{}

// NewAreaResolver creates a new AreaResolver instance.
func NewAreaResolver() AreaResolver {
	return AreaResolver{}
}

// Resolve tests the order's delivery point against each non-archived area and
// assigns the first containing one to the order. A nil result without error
// means no polygon contains the point and the order stays unassigned.
func (r AreaResolver) Resolve(o *order.Order, areas []*area.Area) (*area.Area, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	for _, a := range areas {
		if a.IsArchived() {
			continue
		}

		contains, err := a.Contains(o.DeliveryPoint())
		if err != nil {
			return nil, err
		}
		if !contains {
			continue
		}

		if err := o.AssignArea(a.ID()); err != nil {
			return nil, err
		}
		return a, nil
	}

	return nil, nil
}

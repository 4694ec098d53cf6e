package order

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/pkg/errs"
)

// HistoryEntry is one appended checkpoint record. History is append-only;
// only Rollback and Restore may remove entries.
type HistoryEntry struct {
	StatusID  kernel.UUID
	Slug      status.Slug
	Timestamp time.Time
}

// StatusChange describes the outcome of a successful ApplyStatus call.
// DeliveryStatus is non-nil when the transition forced the exception track.
type StatusChange struct {
	StatusID       kernel.UUID
	Slug           status.Slug
	OccurredAt     time.Time
	DeliveryStatus *DeliveryStatusValue
}

// Order is the aggregate root of the delivery lifecycle. It owns both axes of
// order state: the current checkpoint (a step of the assigned delivery graph,
// backed by an append-only history) and the delivery status exception track.
// All mutations go through the aggregate so the two axes never drift apart.
type Order struct {
	id          kernel.UUID
	partnerID   kernel.UUID
	productType ProductType
	orderType   Type
	graph       *deliverygraph.DeliveryGraph

	courierID *kernel.UUID
	areaID    *kernel.UUID

	deliveryPoint kernel.GeoPoint
	city          string
	timezone      string
	loc           *time.Location

	currentStatusID kernel.UUID
	currentSlug     status.Slug
	history         []HistoryEntry

	deliveryStatus     DeliveryStatus
	actualDeliveryTime *time.Time
	otpExempt          bool
	archived           bool

	isConstructed bool
}

// NewOrder creates an Order and synchronously applies the first step of its
// delivery graph, so a constructed order always has a current checkpoint and
// exactly one history entry.
func NewOrder(
	id, partnerID kernel.UUID,
	productType ProductType,
	orderType Type,
	graph *deliverygraph.DeliveryGraph,
	deliveryPoint kernel.GeoPoint,
	city, timezone string,
	otpExempt bool,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), partnerID.Validate(), deliveryPoint.Validate()); err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if !graph.ServesOrderType(string(orderType)) {
		return nil, errs.NewValueIsInvalidError(
			fmt.Sprintf("delivery graph %q does not serve order type %q", graph.Slug(), orderType))
	}
	if city == "" {
		return nil, errs.NewValueIsRequiredError("city")
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return nil, err
	}

	first, err := graph.Operator().First()
	if err != nil {
		return nil, err
	}

	o := &Order{
		id:              id,
		partnerID:       partnerID,
		productType:     productType,
		orderType:       orderType,
		graph:           graph,
		deliveryPoint:   deliveryPoint,
		city:            city,
		timezone:        timezone,
		loc:             loc,
		currentStatusID: first.StatusID,
		currentSlug:     first.Slug,
		otpExempt:       otpExempt,
		isConstructed:   true,
	}
	o.history = []HistoryEntry{{
		StatusID:  first.StatusID,
		Slug:      first.Slug,
		Timestamp: o.localTime(now),
	}}

	return o, nil
}

// RestoreOrder rebuilds an Order from persistence. The history must be
// non-empty and its last entry is taken as the current checkpoint.
func RestoreOrder(
	id, partnerID kernel.UUID,
	productType ProductType,
	orderType Type,
	graph *deliverygraph.DeliveryGraph,
	courierID, areaID *kernel.UUID,
	deliveryPoint kernel.GeoPoint,
	city, timezone string,
	history []HistoryEntry,
	deliveryStatus DeliveryStatus,
	actualDeliveryTime *time.Time,
	otpExempt, archived bool,
) (*Order, error) {
	if err := errors.Join(id.Validate(), partnerID.Validate(), deliveryPoint.Validate()); err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, errs.NewValueIsRequiredError("history")
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return nil, err
	}

	last := history[len(history)-1]

	return &Order{
		id:                 id,
		partnerID:          partnerID,
		productType:        productType,
		orderType:          orderType,
		graph:              graph,
		courierID:          courierID,
		areaID:             areaID,
		deliveryPoint:      deliveryPoint,
		city:               city,
		timezone:           timezone,
		loc:                loc,
		currentStatusID:    last.StatusID,
		currentSlug:        last.Slug,
		history:            append([]HistoryEntry(nil), history...),
		deliveryStatus:     deliveryStatus,
		actualDeliveryTime: actualDeliveryTime,
		otpExempt:          otpExempt,
		archived:           archived,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Order was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identity.
func (o *Order) ID() kernel.UUID { return o.id }

// PartnerID returns the owning partner.
func (o *Order) PartnerID() kernel.UUID { return o.partnerID }

// ProductType returns what is being delivered.
func (o *Order) ProductType() ProductType { return o.productType }

// OrderType returns delivery or pickup.
func (o *Order) OrderType() Type { return o.orderType }

// Graph returns the assigned delivery graph.
func (o *Order) Graph() *deliverygraph.DeliveryGraph { return o.graph }

// CourierID returns the assigned courier, or nil.
func (o *Order) CourierID() *kernel.UUID { return o.courierID }

// AreaID returns the resolved service area, or nil when unassigned.
func (o *Order) AreaID() *kernel.UUID { return o.areaID }

// DeliveryPoint returns the destination coordinates.
func (o *Order) DeliveryPoint() kernel.GeoPoint { return o.deliveryPoint }

// City returns the delivery city.
func (o *Order) City() string { return o.city }

// Timezone returns the IANA timezone name used to localize history timestamps.
func (o *Order) Timezone() string { return o.timezone }

// CurrentStatusID returns the identity of the current checkpoint.
func (o *Order) CurrentStatusID() kernel.UUID { return o.currentStatusID }

// CurrentSlug returns the current checkpoint slug.
func (o *Order) CurrentSlug() status.Slug { return o.currentSlug }

// History returns a copy of the checkpoint history, oldest first.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// DeliveryStatus returns the exception track record.
func (o *Order) DeliveryStatus() DeliveryStatus { return o.deliveryStatus }

// ActualDeliveryTime returns the stamped completion time, or nil.
func (o *Order) ActualDeliveryTime() *time.Time { return o.actualDeliveryTime }

// IsOTPExempt reports whether the partner waives OTP confirmation.
func (o *Order) IsOTPExempt() bool { return o.otpExempt }

// IsArchived reports whether the order left the active set.
func (o *Order) IsArchived() bool { return o.archived }

// HasStatusInHistory reports whether the slug appears anywhere in the history.
func (o *Order) HasStatusInHistory(slug status.Slug) bool {
	for _, entry := range o.history {
		if entry.Slug == slug {
			return true
		}
	}
	return false
}

// NextStatusSlug returns the graph step following the current checkpoint.
func (o *Order) NextStatusSlug() (status.Slug, error) {
	step, err := o.graph.Operator().StepAfter(o.currentSlug)
	if err != nil {
		return "", err
	}
	return step.Slug, nil
}

// ApplyStatus moves the order to the target checkpoint. It enforces graph
// membership, the target's "after" dependencies and terminal-state rules,
// appends a history entry with a city-localized timestamp and derives the
// forced delivery status where the checkpoint demands one.
func (o *Order) ApplyStatus(target *status.Status, now time.Time) (*StatusChange, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if o.archived {
		return nil, ErrOrderIsArchived
	}

	slug := target.Slug()
	if slug == o.currentSlug {
		return nil, fmt.Errorf("%w: %s", ErrStatusAlreadyCurrent, slug)
	}
	if o.currentSlug.IsTerminal() {
		return nil, fmt.Errorf("%w: current status is %s", ErrOrderIsFinished, o.currentSlug)
	}
	if !o.graph.Operator().Contains(slug) {
		return nil, &StatusNotInGraphError{Target: slug}
	}
	for _, dep := range target.After() {
		if !o.HasStatusInHistory(dep) {
			return nil, &StatusAfterError{Target: slug, Missing: dep}
		}
	}

	occurredAt := o.localTime(now)
	o.history = append(o.history, HistoryEntry{
		StatusID:  target.ID(),
		Slug:      slug,
		Timestamp: occurredAt,
	})
	o.currentStatusID = target.ID()
	o.currentSlug = slug

	change := &StatusChange{StatusID: target.ID(), Slug: slug, OccurredAt: occurredAt}

	switch slug {
	case status.AcceptedByCourier:
		o.forceDeliveryStatus(OnTheWayToCallPoint, occurredAt)
		change.DeliveryStatus = o.deliveryStatus.value
	case status.Delivered, status.Issued:
		o.forceDeliveryStatus(IsDelivered, occurredAt)
		change.DeliveryStatus = o.deliveryStatus.value
	case status.Ended:
		o.archived = true
	}

	if slug == status.PostControl || slug == status.Issued || slug == status.Delivered {
		o.stampActualDeliveryTime(occurredAt)
	}

	return change, nil
}

// RollbackTo removes every history entry after the named checkpoint, or after
// and including it when inclusive is set. The last remaining entry becomes the
// current checkpoint again.
func (o *Order) RollbackTo(slug status.Slug, inclusive bool, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	idx := -1
	for i := len(o.history) - 1; i >= 0; i-- {
		if o.history[i].Slug == slug {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.NewObjectNotFoundError("status in history", slug)
	}

	cut := idx + 1
	if inclusive {
		cut = idx
	}
	if cut == 0 {
		return ErrHistoryIsEmpty
	}

	o.history = o.history[:cut]
	last := o.history[len(o.history)-1]
	o.currentStatusID = last.StatusID
	o.currentSlug = last.Slug
	o.archived = false

	return nil
}

// Restore reopens the order: history collapses to a single fresh entry for the
// graph's first step, the exception track and completion stamp are cleared and
// the courier is released. Delivered orders cannot be restored.
func (o *Order) Restore(now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.deliveryStatus.Is(IsDelivered) {
		return ErrOrderAlreadyDelivered
	}

	first, err := o.graph.Operator().First()
	if err != nil {
		return err
	}

	o.history = []HistoryEntry{{
		StatusID:  first.StatusID,
		Slug:      first.Slug,
		Timestamp: o.localTime(now),
	}}
	o.currentStatusID = first.StatusID
	o.currentSlug = first.Slug
	o.deliveryStatus = DeliveryStatus{}
	o.actualDeliveryTime = nil
	o.courierID = nil
	o.archived = false

	return nil
}

// AssignCourier attaches the order to a courier. Reassignment is allowed while
// the order stays open.
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.archived {
		return ErrOrderIsArchived
	}

	o.courierID = &courierID
	return nil
}

// ExpelCourier releases the current courier assignment.
func (o *Order) ExpelCourier() {
	o.courierID = nil
}

// AssignArea records the resolved service area.
func (o *Order) AssignArea(areaID kernel.UUID) error {
	if err := areaID.Validate(); err != nil {
		return err
	}

	o.areaID = &areaID
	return nil
}

// SetDeliveryStatus updates the exception track without touching the current
// checkpoint. Terminal exception values on archived orders are rejected.
func (o *Order) SetDeliveryStatus(value DeliveryStatusValue, reason, comment string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.archived {
		return ErrOrderIsArchived
	}

	ds, err := NewDeliveryStatus(value, reason, comment, o.localTime(now))
	if err != nil {
		return err
	}

	o.deliveryStatus = ds
	return nil
}

// ClearDeliveryStatus resumes normal processing after an exception.
func (o *Order) ClearDeliveryStatus() error {
	if err := o.Validate(); err != nil {
		return err
	}

	o.deliveryStatus = DeliveryStatus{}
	return nil
}

// MarkArchived flags the order as removed from the active set.
func (o *Order) MarkArchived() {
	o.archived = true
}

func (o *Order) forceDeliveryStatus(value DeliveryStatusValue, at time.Time) {
	v := value
	o.deliveryStatus = DeliveryStatus{value: &v, changedAt: &at}
}

// stampActualDeliveryTime records the completion moment exactly once.
func (o *Order) stampActualDeliveryTime(at time.Time) {
	if o.actualDeliveryTime != nil {
		return
	}
	o.actualDeliveryTime = &at
}

func (o *Order) localTime(now time.Time) time.Time {
	if o.loc == nil {
		return now.UTC()
	}
	return now.In(o.loc)
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("timezone", err)
	}
	return loc, nil
}

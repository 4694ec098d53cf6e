// Package deliverygraph models the ordered checkpoint sequence a product's
// orders move through. A delivery graph carries two variants of the sequence:
// the operator variant drives the state machine, the courier variant is the
// subset shown in the courier application.
package deliverygraph

import (
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	// ErrGraphIsEmpty is returned when a graph variant has no steps.
	ErrGraphIsEmpty = errs.NewValueIsInvalidError("graph must have at least one step")

	// ErrStepNotFound is returned when a slug is not part of the graph.
	ErrStepNotFound = errors.New("step not found in graph")

	// ErrGraphIsNotConstructed is returned for a zero-value Graph.
	ErrGraphIsNotConstructed = errs.NewValueIsRequiredError(
		"graph must be created via NewGraph constructor")

	// ErrDeliveryGraphIsNotConstructed is returned when a DeliveryGraph was not
	// created through NewDeliveryGraph.
	ErrDeliveryGraphIsNotConstructed = errors.New(
		"DeliveryGraph must be created via NewDeliveryGraph constructor")
)

// Step is a single checkpoint inside a graph variant.
type Step struct {
	StatusID kernel.UUID
	Slug     status.Slug
	Name     string
	Icon     string
	Position int
}

// Graph is an immutable, ordered checkpoint sequence. Positions are contiguous
// and start at 1; slugs are unique within the graph.
type Graph struct {
	steps []Step
	index map[status.Slug]int
	guard guard.ConstructorGuard
}

// NewGraph builds a Graph from steps, sorting is not performed: callers supply
// steps already ordered by position.
func NewGraph(steps []Step) (Graph, error) {
	if len(steps) == 0 {
		return Graph{}, ErrGraphIsEmpty
	}

	index := make(map[status.Slug]int, len(steps))
	for i, step := range steps {
		if err := step.StatusID.Validate(); err != nil {
			return Graph{}, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("step %d status ID", i), err)
		}
		if step.Slug == "" {
			return Graph{}, errs.NewValueIsRequiredError(fmt.Sprintf("step %d slug", i))
		}
		if step.Position != i+1 {
			return Graph{}, errs.NewValueIsInvalidError(
				fmt.Sprintf("step %q position %d, want %d", step.Slug, step.Position, i+1))
		}
		if _, ok := index[step.Slug]; ok {
			return Graph{}, errs.NewValueIsInvalidError(fmt.Sprintf("duplicate step %q", step.Slug))
		}
		index[step.Slug] = i
	}

	return Graph{
		steps: append([]Step(nil), steps...),
		index: index,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the graph was created through NewGraph.
func (g Graph) Validate() error {
	return g.guard.Validate(ErrGraphIsNotConstructed)
}

// Steps returns a copy of the ordered step list.
func (g Graph) Steps() []Step {
	return append([]Step(nil), g.steps...)
}

// Len returns the number of steps.
func (g Graph) Len() int {
	return len(g.steps)
}

// First returns the initial step of the graph.
func (g Graph) First() (Step, error) {
	if err := g.Validate(); err != nil {
		return Step{}, err
	}
	return g.steps[0], nil
}

// Contains reports whether slug is a step of the graph.
func (g Graph) Contains(slug status.Slug) bool {
	_, ok := g.index[slug]
	return ok
}

// Step returns the step with the given slug.
func (g Graph) Step(slug status.Slug) (Step, error) {
	i, ok := g.index[slug]
	if !ok {
		return Step{}, fmt.Errorf("%w: %s", ErrStepNotFound, slug)
	}
	return g.steps[i], nil
}

// StepAfter returns the step immediately following slug, or ErrStepNotFound
// when slug is the last step or absent.
func (g Graph) StepAfter(slug status.Slug) (Step, error) {
	i, ok := g.index[slug]
	if !ok || i+1 >= len(g.steps) {
		return Step{}, fmt.Errorf("%w: after %s", ErrStepNotFound, slug)
	}
	return g.steps[i+1], nil
}

// Position returns the 1-based position of slug within the graph.
func (g Graph) Position(slug status.Slug) (int, error) {
	i, ok := g.index[slug]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrStepNotFound, slug)
	}
	return g.steps[i].Position, nil
}

// DeliveryGraph is the aggregate tying a named workflow to the order types it
// serves. The operator variant is authoritative for transitions.
type DeliveryGraph struct {
	id         kernel.UUID
	name       string
	slug       string
	partnerID  *kernel.UUID
	orderTypes []string
	operator   Graph
	courier    Graph

	isConstructed bool
}

// NewDeliveryGraph creates a DeliveryGraph. The courier variant may reference
// only statuses present in the operator variant.
func NewDeliveryGraph(
	id kernel.UUID,
	name, slug string,
	partnerID *kernel.UUID,
	orderTypes []string,
	operator, courier Graph,
) (*DeliveryGraph, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if slug == "" {
		return nil, errs.NewValueIsRequiredError("slug")
	}
	if err := operator.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("operator graph", err)
	}
	if err := courier.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("courier graph", err)
	}
	for _, step := range courier.steps {
		if !operator.Contains(step.Slug) {
			return nil, errs.NewValueIsInvalidError(
				fmt.Sprintf("courier graph step %q absent from operator graph", step.Slug))
		}
	}
	if partnerID != nil {
		if err := partnerID.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("partnerID", err)
		}
	}

	return &DeliveryGraph{
		id:            id,
		name:          name,
		slug:          slug,
		partnerID:     partnerID,
		orderTypes:    append([]string(nil), orderTypes...),
		operator:      operator,
		courier:       courier,
		isConstructed: true,
	}, nil
}

// Validate ensures the DeliveryGraph was created via NewDeliveryGraph.
func (d *DeliveryGraph) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryGraphIsNotConstructed
	}
	return nil
}

// ID returns the graph identity.
func (d *DeliveryGraph) ID() kernel.UUID {
	return d.id
}

// Name returns the display name.
func (d *DeliveryGraph) Name() string {
	return d.name
}

// Slug returns the graph's stable identifier.
func (d *DeliveryGraph) Slug() string {
	return d.slug
}

// PartnerID returns the owning partner, or nil for a shared graph.
func (d *DeliveryGraph) PartnerID() *kernel.UUID {
	return d.partnerID
}

// OrderTypes returns the order type slugs this graph serves.
func (d *DeliveryGraph) OrderTypes() []string {
	return append([]string(nil), d.orderTypes...)
}

// ServesOrderType reports whether the graph covers the given order type.
func (d *DeliveryGraph) ServesOrderType(orderType string) bool {
	for _, t := range d.orderTypes {
		if t == orderType {
			return true
		}
	}
	return false
}

// Operator returns the authoritative graph variant.
func (d *DeliveryGraph) Operator() Graph {
	return d.operator
}

// Courier returns the variant shown in the courier application.
func (d *DeliveryGraph) Courier() Graph {
	return d.courier
}

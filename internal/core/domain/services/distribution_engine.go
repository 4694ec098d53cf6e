package services

import (
	"context"
	"errors"
	"sync"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
)

var (
	// ErrNoCouriersAvailable is returned when the area has no active courier
	// members, or every member was excluded by oracle failures. The pass is
	// skipped without side effects.
	ErrNoCouriersAvailable = errors.New("no couriers available")

	// ErrNoOrdersToDistribute is returned for an empty candidate set.
	ErrNoOrdersToDistribute = errors.New("no orders to distribute")
)

// CourierLoad couples a courier with the stops of their already-committed
// same-day open orders.
type CourierLoad struct {
	Courier   *courier.Courier
	Committed []ports.RouteStop
}

// Assignment is the outcome of courier selection: the winning courier and the
// oracle's estimate for their combined route.
type Assignment struct {
	Courier *courier.Courier
	Plan    ports.RoutePlan
}

// DistributionEngine selects the courier whose total route time over existing
// plus candidate stops is minimal. All candidate orders of one pass go to a
// single courier; the set is never split.
type DistributionEngine struct {
	oracle ports.RoutingOracle
}

// NewDistributionEngine creates a DistributionEngine backed by the given
// routing oracle.
func NewDistributionEngine(oracle ports.RoutingOracle) *DistributionEngine {
	return &DistributionEngine{oracle: oracle}
}

// SelectCourier evaluates every active courier through the oracle and returns
// the one with the minimum estimated total time. Oracle calls fan out
// concurrently; a failing call excludes that courier from the pass instead of
// aborting it. Ties break by input order, first courier wins.
func (e *DistributionEngine) SelectCourier(
	ctx context.Context,
	candidates []*order.Order,
	loads []CourierLoad,
) (*Assignment, error) {
	if len(candidates) == 0 {
		return nil, ErrNoOrdersToDistribute
	}

	active := make([]CourierLoad, 0, len(loads))
	for _, load := range loads {
		if err := load.Courier.Validate(); err != nil {
			return nil, err
		}
		if load.Courier.IsActive() {
			active = append(active, load)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoCouriersAvailable
	}

	candidateStops := make([]ports.RouteStop, 0, len(candidates))
	for _, o := range candidates {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		candidateStops = append(candidateStops, ports.RouteStop{
			OrderID: o.ID(),
			Point:   o.DeliveryPoint(),
		})
	}

	estimates := make([]*ports.RoutePlan, len(active))
	var wg sync.WaitGroup
	for i, load := range active {
		wg.Add(1)
		go func(i int, load CourierLoad) {
			defer wg.Done()

			stops := append(append([]ports.RouteStop(nil), load.Committed...), candidateStops...)
			plan, err := e.oracle.Estimate(ctx, load.Courier, stops)
			if err != nil {
				return
			}
			estimates[i] = &plan
		}(i, load)
	}
	wg.Wait()

	best := -1
	for i, plan := range estimates {
		if plan == nil {
			continue
		}
		if best < 0 || plan.TotalTime < estimates[best].TotalTime {
			best = i
		}
	}
	if best < 0 {
		return nil, ErrNoCouriersAvailable
	}

	return &Assignment{Courier: active[best].Courier, Plan: *estimates[best]}, nil
}

// Replan asks the oracle for the authoritative stop order of a courier's
// current open set. Used after the winning courier's commitment and for
// single-order redistribution, where no courier re-selection occurs.
func (e *DistributionEngine) Replan(
	ctx context.Context,
	c *courier.Courier,
	stops []ports.RouteStop,
) (ports.RoutePlan, error) {
	if err := c.Validate(); err != nil {
		return ports.RoutePlan{}, err
	}
	return e.oracle.Estimate(ctx, c, stops)
}

package ports

import (
	"context"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
)

// ErrRoutingOracleUnavailable classifies oracle transport failures. During a
// distribution pass the affected courier is excluded rather than failing the
// whole pass.
var ErrRoutingOracleUnavailable = errors.New("routing oracle is unavailable")

// RouteStop is one delivery point submitted to or returned by the oracle.
type RouteStop struct {
	OrderID kernel.UUID
	Point   kernel.GeoPoint
}

// RoutePlan is the oracle's answer: the estimated total route time and the
// stops in authoritative visiting order.
type RoutePlan struct {
	TotalTime time.Duration
	Stops     []RouteStop
}

// RoutingOracle estimates route time and stop order for a courier and a stop
// list. It is an out-of-process black box called once per courier per
// distribution pass.
type RoutingOracle interface {
	Estimate(ctx context.Context, c *courier.Courier, stops []RouteStop) (RoutePlan, error)
}

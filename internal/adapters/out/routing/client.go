// Package routing implements the routing oracle port over HTTP. The oracle is
// an out-of-process service estimating total route time and stop order for a
// courier and a candidate stop list.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
)

// defaultTimeout bounds one oracle round trip. Estimation over a large stop
// set is slow, so the bound is generous.
const defaultTimeout = 20 * time.Second

// Client calls the routing oracle over HTTP POST with a JSON body.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a routing oracle client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

// estimateRequest is the oracle wire request.
type estimateRequest struct {
	CourierID uuid.UUID     `json:"courier_id"`
	Stops     []requestStop `json:"stops"`
}

type requestStop struct {
	OrderID   uuid.UUID `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// estimateResponse is the oracle wire answer. Plan lists the stops in
// authoritative visiting order.
type estimateResponse struct {
	TotalSeconds int64          `json:"total_time"`
	Plan         []responseStop `json:"plan"`
}

type responseStop struct {
	OrderID   uuid.UUID `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// Estimate submits the courier's stop list and returns the oracle's plan.
// Transport and server failures are classified as ErrRoutingOracleUnavailable
// so a distribution pass can exclude the courier instead of failing.
func (c *Client) Estimate(
	ctx context.Context,
	courier *courier.Courier,
	stops []ports.RouteStop,
) (ports.RoutePlan, error) {
	if err := courier.Validate(); err != nil {
		return ports.RoutePlan{}, err
	}

	reqBody := estimateRequest{
		CourierID: courier.ID().Bytes(),
		Stops:     make([]requestStop, 0, len(stops)),
	}
	for _, stop := range stops {
		reqBody.Stops = append(reqBody.Stops, requestStop{
			OrderID:   stop.OrderID.Bytes(),
			Latitude:  stop.Point.Latitude(),
			Longitude: stop.Point.Longitude(),
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return ports.RoutePlan{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/estimate", bytes.NewReader(payload))
	if err != nil {
		return ports.RoutePlan{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.RoutePlan{}, fmt.Errorf("%w: %w", ports.ErrRoutingOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.RoutePlan{}, fmt.Errorf("%w: status %d", ports.ErrRoutingOracleUnavailable, resp.StatusCode)
	}

	var oracleResp estimateResponse
	if err = json.NewDecoder(resp.Body).Decode(&oracleResp); err != nil {
		return ports.RoutePlan{}, fmt.Errorf("%w: %w", ports.ErrRoutingOracleUnavailable, err)
	}

	plan := ports.RoutePlan{
		TotalTime: time.Duration(oracleResp.TotalSeconds) * time.Second,
		Stops:     make([]ports.RouteStop, 0, len(oracleResp.Plan)),
	}
	for _, stop := range oracleResp.Plan {
		orderID, idErr := kernel.UUIDFromBytes(stop.OrderID[:])
		if idErr != nil {
			return ports.RoutePlan{}, idErr
		}
		point, pErr := kernel.NewGeoPoint(stop.Latitude, stop.Longitude)
		if pErr != nil {
			return ports.RoutePlan{}, pErr
		}
		plan.Stops = append(plan.Stops, ports.RouteStop{OrderID: orderID, Point: point})
	}

	return plan, nil
}

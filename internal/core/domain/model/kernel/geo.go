package kernel

import (
	"errors"
	"fmt"
	"math"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const (
	// MinLatitude and MaxLatitude bound valid latitudes in degrees.
	MinLatitude float64 = -90
	MaxLatitude float64 = 90
	// MinLongitude and MaxLongitude bound valid longitudes in degrees.
	MinLongitude float64 = -180
	MaxLongitude float64 = 180

	// earthRadiusMeters is the mean Earth radius used by the haversine formula.
	earthRadiusMeters = 6371000
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. Points must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// ErrPolygonIsTooSmall is returned when a polygon has fewer than three vertices.
var ErrPolygonIsTooSmall = errs.NewValueIsInvalidError("polygon must have at least 3 vertices")

// GeoPoint is an immutable value object holding a WGS84 coordinate pair.
// The zero value is invalid; use NewGeoPoint.
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with validated coordinates.
// Latitude must lie within [-90, 90] and longitude within [-180, 180].
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the point was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

// IsEqual reports whether two points hold the same coordinates.
// Both points must be properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// DistanceMeters returns the great-circle distance to other in whole meters,
// computed with the haversine formula.
func (p GeoPoint) DistanceMeters(other GeoPoint) (int, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	if p.latitude == other.latitude && p.longitude == other.longitude {
		return 0, nil
	}

	latA := toRadians(p.latitude)
	latB := toRadians(other.latitude)
	dLat := latB - latA
	dLng := toRadians(other.longitude) - toRadians(p.longitude)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	toRoot := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng

	return int(2 * math.Asin(math.Sqrt(toRoot)) * earthRadiusMeters), nil
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	p.longitude = longitude
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Polygon is an immutable value object holding the ordered vertex list of a
// geographic area boundary. The closing edge from the last vertex back to the
// first is implicit.
type Polygon struct {
	vertices []GeoPoint
	guard    guard.ConstructorGuard
}

// NewPolygon creates a Polygon from at least three validated vertices.
func NewPolygon(vertices []GeoPoint) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, ErrPolygonIsTooSmall
	}

	for i, v := range vertices {
		if err := v.Validate(); err != nil {
			return Polygon{}, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("vertex %d", i), err)
		}
	}

	return Polygon{
		vertices: append([]GeoPoint(nil), vertices...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the polygon was created through NewPolygon.
func (p Polygon) Validate() error {
	return p.guard.Validate(errs.NewValueIsRequiredError(
		"polygon must be created via NewPolygon constructor"))
}

// Vertices returns a copy of the vertex list.
func (p Polygon) Vertices() []GeoPoint {
	return append([]GeoPoint(nil), p.vertices...)
}

// Contains reports whether the point lies inside the polygon using the
// ray-casting rule. Points exactly on an edge may fall on either side.
func (p Polygon) Contains(point GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), point.Validate()); err != nil {
		return false, err
	}

	inside := false
	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi := p.vertices[i]
		vj := p.vertices[j]

		intersects := (vi.longitude > point.longitude) != (vj.longitude > point.longitude) &&
			point.latitude < (vj.latitude-vi.latitude)*
				(point.longitude-vi.longitude)/(vj.longitude-vi.longitude)+vi.latitude
		if intersects {
			inside = !inside
		}
	}

	return inside, nil
}

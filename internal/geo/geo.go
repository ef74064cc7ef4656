// Package geo provides great-circle distance and proximity check-in
// evaluation. Everything here is a pure function over coordinates; position
// acquisition (device permissions, GPS timeouts) is the client's problem.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000

// DisplayMultiplier controls how far outside the check-in radius the
// proximity indicator starts filling. At exactly the radius the closeness
// ratio is 1 - 1/DisplayMultiplier (0.8), reaching 1.0 only well inside it.
const DisplayMultiplier = 5

// Coordinate is an immutable latitude/longitude pair in decimal degrees
// (WGS 84). Latitude is in [-90, 90], longitude in [-180, 180]; out-of-range
// values produce a mathematically defined but geographically meaningless
// distance, so callers validate ranges if they care.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProximityResult is the outcome of evaluating a position against a site.
// It is computed fresh on every evaluation and never stored.
type ProximityResult struct {
	// DistanceMeters is the great-circle distance to the site.
	DistanceMeters float64 `json:"distance_meters"`
	// WithinRadius reports check-in eligibility.
	WithinRadius bool `json:"within_radius"`
	// ClosenessRatio is a [0,1] value for the UI proximity bar. It is
	// display feedback only, distinct from the WithinRadius decision.
	ClosenessRatio float64 `json:"closeness_ratio"`
}

// DistanceMeters returns the haversine distance between two coordinates.
// The result is symmetric in its arguments and zero iff they are equal.
func DistanceMeters(a, b Coordinate) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Evaluate decides check-in eligibility for a position against a site.
// radiusMeters must be positive; there is no default radius here — the
// caller supplies the configured value explicitly.
func Evaluate(current, site Coordinate, radiusMeters float64) ProximityResult {
	d := DistanceMeters(current, site)
	return ProximityResult{
		DistanceMeters: d,
		WithinRadius:   d <= radiusMeters,
		ClosenessRatio: clamp01(1 - d/(radiusMeters*DisplayMultiplier)),
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

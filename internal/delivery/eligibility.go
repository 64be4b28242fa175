// Package delivery gates delivery orders on distance from the bakery.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"math"

	"bakeshop/internal/models"
)

// ErrGeocodeFailed means the geocoder understood the address but found no
// match for it. Checkout treats it as an unresolvable address. Transport and
// server failures are different errors and stay infrastructure faults.
var ErrGeocodeFailed = errors.New("delivery: address could not be geocoded")

// Result is the outcome of an eligibility check.
type Result struct {
	Eligible      bool
	DistanceMiles float64
}

// Checker decides whether an address is deliverable under the given config.
type Checker interface {
	CheckAddress(ctx context.Context, cfg models.DeliveryConfig, address string) (Result, error)
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// RadiusChecker geocodes the address and compares the great-circle distance
// against the configured radius.
type RadiusChecker struct {
	Geocoder Geocoder
}

func NewRadiusChecker(geocoder Geocoder) *RadiusChecker {
	return &RadiusChecker{Geocoder: geocoder}
}

func (c *RadiusChecker) CheckAddress(ctx context.Context, cfg models.DeliveryConfig, address string) (Result, error) {
	lat, lng, err := c.Geocoder.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, ErrGeocodeFailed) {
			return Result{}, ErrGeocodeFailed
		}
		return Result{}, fmt.Errorf("delivery: geocode lookup: %w", err)
	}

	distance := haversineMiles(cfg.OriginLat, cfg.OriginLng, lat, lng)
	return Result{
		Eligible:      distance <= cfg.RadiusMiles,
		DistanceMiles: distance,
	}, nil
}

const earthRadiusMiles = 3958.8

func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

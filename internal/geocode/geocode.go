// Package geocode wraps an external address-to-coordinates lookup service.
package geocode

import (
	"context"
	"errors"

	"trailhaven/internal/middleware"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/opencage"
)

// ErrInvalidAddress is returned when the upstream geocoder yields zero
// candidates or fails; both cases are surfaced to the user identically.
var ErrInvalidAddress = errors.New("invalid address")

// Geocoder resolves a free-text address to latitude/longitude.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

type client struct {
	provider geo.Geocoder
}

// NewOpenCage returns a Geocoder backed by the OpenCage API.
func NewOpenCage(apiKey string) Geocoder {
	return &client{provider: opencage.Geocoder(apiKey)}
}

// NewWithProvider wraps an arbitrary geo-golang provider. Used by tests and
// available for swapping providers via configuration later.
func NewWithProvider(provider geo.Geocoder) Geocoder {
	return &client{provider: provider}
}

func (c *client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	loc, err := c.provider.Geocode(address)
	if err != nil || loc == nil {
		middleware.GeocodeFailures.Inc()
		if err != nil {
			middleware.Logger.WarnContext(ctx, "geocode lookup failed", "address", address, "error", err.Error())
		}
		return 0, 0, ErrInvalidAddress
	}
	return loc.Lat, loc.Lng, nil
}

package geocode

import (
	"context"
	"errors"
	"testing"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	loc *geo.Location
	err error
}

func (f fakeProvider) Geocode(address string) (*geo.Location, error) {
	return f.loc, f.err
}

func (f fakeProvider) ReverseGeocode(lat, lng float64) (*geo.Address, error) {
	return nil, nil
}

func TestGeocode_Success(t *testing.T) {
	g := NewWithProvider(fakeProvider{loc: &geo.Location{Lat: 48.8566, Lng: 2.3522}})

	lat, lng, err := g.Geocode(context.Background(), "Paris, France")
	assert.NoError(t, err)
	assert.Equal(t, 48.8566, lat)
	assert.Equal(t, 2.3522, lng)
}

func TestGeocode_NoCandidates(t *testing.T) {
	g := NewWithProvider(fakeProvider{loc: nil})

	_, _, err := g.Geocode(context.Background(), "xqzzt")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestGeocode_UpstreamError(t *testing.T) {
	g := NewWithProvider(fakeProvider{err: errors.New("upstream unavailable")})

	_, _, err := g.Geocode(context.Background(), "Paris, France")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

package geocode

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/innodatatics/city_dashboard/internal/http/googlemaps"
	"github.com/innodatatics/city_dashboard/internal/http/nominatim"
)

type fakeNominatim struct {
	displayName string
	err         error
	calls       int
}

func (f *fakeNominatim) ReverseGeocode(_ context.Context, lat, lon float64) (*nominatim.ReverseResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &nominatim.ReverseResponse{DisplayName: f.displayName}, nil
}

type fakeGoogle struct {
	address string
	err     error
	calls   int
}

func (f *fakeGoogle) ReverseGeocode(_ context.Context, lat, lng float64) (*googlemaps.GeocodeResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &googlemaps.GeocodeResult{FormattedAddress: f.address}, nil
}

func TestResolvePrimarySucceeds(t *testing.T) {
	primary := &fakeNominatim{displayName: "MG Road, Bengaluru, Karnataka, India"}
	fallback := &fakeGoogle{address: "unused"}
	r := NewResolver(primary, fallback)

	got := r.Resolve(context.Background(), 12.9716, 77.5946)
	assert.Equal(t, "MG Road, Bengaluru, Karnataka, India", got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls, "fallback must not be called when primary succeeds")
}

func TestResolveFallsBackToGoogle(t *testing.T) {
	primary := &fakeNominatim{err: errors.New("connection refused")}
	fallback := &fakeGoogle{address: "1 Example St, Bengaluru, India"}
	r := NewResolver(primary, fallback)

	got := r.Resolve(context.Background(), 12.9716, 77.5946)
	assert.Equal(t, "1 Example St, Bengaluru, India", got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestResolveEmptyDisplayNameFallsBack(t *testing.T) {
	primary := &fakeNominatim{displayName: ""}
	fallback := &fakeGoogle{address: "Fallback Address"}
	r := NewResolver(primary, fallback)

	got := r.Resolve(context.Background(), 12.9716, 77.5946)
	assert.Equal(t, "Fallback Address", got)
}

func TestResolveBothFailReturnsCoordinateString(t *testing.T) {
	primary := &fakeNominatim{err: errors.New("timeout")}
	fallback := &fakeGoogle{err: errors.New("REQUEST_DENIED")}
	r := NewResolver(primary, fallback)

	got := r.Resolve(context.Background(), 12.9716, 77.5946)
	assert.Equal(t, "near reported coordinates [12.9716, 77.5946]", got)

	// Each service is tried exactly once; no retries.
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestResolveNoFallbackConfigured(t *testing.T) {
	primary := &fakeNominatim{err: errors.New("timeout")}
	r := NewResolver(primary, nil)

	got := r.Resolve(context.Background(), 12.90, 77.50)
	assert.Equal(t, "near reported coordinates [12.9, 77.5]", got)
}

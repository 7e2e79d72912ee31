// Package geocode resolves report coordinates to human-readable place
// descriptions, degrading through a fallback chain rather than failing.
package geocode

import (
	"context"
	"fmt"
	"log"

	"github.com/innodatatics/city_dashboard/internal/http/googlemaps"
	"github.com/innodatatics/city_dashboard/internal/http/nominatim"
)

// NominatimAPI is the slice of the Nominatim client the resolver uses.
type NominatimAPI interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*nominatim.ReverseResponse, error)
}

// GoogleMapsAPI is the slice of the Google Maps client the resolver uses.
type GoogleMapsAPI interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*googlemaps.GeocodeResult, error)
}

// Resolver tries Nominatim first, then Google Maps geocoding, then degrades
// to a coordinate string. Each service is tried exactly once per call and no
// failure escapes this boundary.
type Resolver struct {
	Primary  NominatimAPI
	Fallback GoogleMapsAPI
}

func NewResolver(primary NominatimAPI, fallback GoogleMapsAPI) *Resolver {
	return &Resolver{Primary: primary, Fallback: fallback}
}

// Resolve returns a place description for the coordinates. Never errors.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) string {
	if r.Primary != nil {
		place, err := r.Primary.ReverseGeocode(ctx, lat, lon)
		switch {
		case err != nil:
			log.Printf("nominatim error for %v,%v: %v", lat, lon, err)
		case place.DisplayName == "":
			log.Printf("nominatim failed for %v,%v: no display_name in response", lat, lon)
		default:
			return place.DisplayName
		}
	}

	if r.Fallback != nil {
		result, err := r.Fallback.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			log.Printf("google maps geocoding error for %v,%v: %v", lat, lon, err)
		} else if result.FormattedAddress != "" {
			return result.FormattedAddress
		}
	}

	return FallbackDescription(lat, lon)
}

// FallbackDescription is the degraded location string used when no geocoding
// service could name the place.
func FallbackDescription(lat, lon float64) string {
	return fmt.Sprintf("near reported coordinates [%v, %v]", lat, lon)
}

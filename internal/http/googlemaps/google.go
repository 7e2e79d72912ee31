package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// GoogleMapsClient handles communication with Google Maps APIs
type GoogleMapsClient struct {
	APIKey string // IMPORTANT: Handle your API Key securely! Do not hardcode.
	Client *http.Client
}

// NewGoogleMapsClient creates a new client instance
// apiKey should be loaded securely (e.g., from environment variable)
func NewGoogleMapsClient(apiKey string) *GoogleMapsClient {
	if apiKey == "" {
		log.Println("Warning: Google Maps API Key is empty.")
	}
	return &GoogleMapsClient{
		APIKey: apiKey,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Geocoding Structures ---

// GeocodeResponse represents the top-level response for a Geocoding request
type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
	Status  string          `json:"status"` // "OK", "ZERO_RESULTS", "OVER_QUERY_LIMIT", "REQUEST_DENIED", ...
}

// GeocodeResult is a single geocoding match
type GeocodeResult struct {
	AddressComponents []AddressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          Geometry           `json:"geometry"`
	PlaceID           string             `json:"place_id"`
	Types             []string           `json:"types"`
}

// AddressComponent represents a component of an address
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Geometry contains location information
type Geometry struct {
	Location LatLng `json:"location"`
}

// LatLng represents latitude and longitude
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReverseGeocode resolves a coordinate pair to a formatted address using the
// Geocoding API. A non-OK status in the response body is returned as an error
// so callers can fall through to their next option.
func (c *GoogleMapsClient) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResult, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("google maps API key not configured")
	}

	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("key", c.APIKey)
	fullURL := fmt.Sprintf("https://maps.googleapis.com/maps/api/geocode/json?%s", params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API error: status %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var geocodeResp GeocodeResponse
	if err := json.Unmarshal(bodyBytes, &geocodeResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if geocodeResp.Status != "OK" || len(geocodeResp.Results) == 0 {
		return nil, fmt.Errorf("geocoding failed: %s", geocodeResp.Status)
	}

	return &geocodeResp.Results[0], nil
}

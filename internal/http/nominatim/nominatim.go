package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

const (
	defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"
)

// Client handles communication with the OpenStreetMap Nominatim API.
// Nominatim requires a descriptive User-Agent identifying the application.
type Client struct {
	BaseURL    *url.URL
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new Nominatim client with default timeout.
func NewClient(userAgent string) *Client {
	baseURL, _ := url.Parse(defaultNominatimBaseURL)
	return &Client{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// ReverseQuery represents parameters for reverse geocoding requests.
type ReverseQuery struct {
	Format string  `url:"format"`
	Lat    float64 `url:"lat"`
	Lon    float64 `url:"lon"`
}

// ReverseResponse is the jsonv2 response for the /reverse endpoint.
type ReverseResponse struct {
	PlaceID     int64  `json:"place_id"`
	OSMType     string `json:"osm_type"`
	OSMID       int64  `json:"osm_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Address     struct {
		Road     string `json:"road,omitempty"`
		Suburb   string `json:"suburb,omitempty"`
		City     string `json:"city,omitempty"`
		State    string `json:"state,omitempty"`
		Postcode string `json:"postcode,omitempty"`
		Country  string `json:"country,omitempty"`
	} `json:"address"`
}

// buildURL constructs the API URL with query parameters.
func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		u.RawQuery = v.Encode()
	}
	return u.String(), nil
}

// ReverseGeocode resolves a coordinate pair to a place description.
// Endpoint: /reverse?format=jsonv2
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseResponse, error) {
	reqURL, err := c.buildURL("/reverse", &ReverseQuery{Format: "jsonv2", Lat: lat, Lon: lon})
	if err != nil {
		return nil, errors.Wrap(err, "build reverse geocode URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create reverse geocode request")
	}
	req.Header.Set("User-Agent", c.UserAgent)

	var result ReverseResponse
	if err := c.do(req, &result); err != nil {
		return nil, errors.Wrap(err, "execute reverse geocode request")
	}
	return &result, nil
}

// do executes HTTP requests and decodes JSON responses.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}

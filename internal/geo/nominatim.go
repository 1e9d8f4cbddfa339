package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the public Nominatim search endpoint.
const DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

// defaultUserAgent identifies this service to Nominatim, which rejects
// anonymous clients.
const defaultUserAgent = "job-matcher/1.0"

// Geocoder resolves a location string to coordinates. found=false with a nil
// error is a definitive "not found"; an error is a transient service-level
// failure that may be retried.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (coords Coordinates, found bool, err error)
}

// NominatimGeocoder implements Geocoder against the Nominatim HTTP API.
// The embedded http.Client is safe for concurrent reuse.
type NominatimGeocoder struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

// NewNominatim creates a geocoder for the given endpoint; an empty endpoint
// uses the public service.
func NewNominatim(endpoint string) *NominatimGeocoder {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &NominatimGeocoder{
		endpoint:  endpoint,
		userAgent: defaultUserAgent,
		// Per-attempt deadlines come from the caller's context; this is a
		// hard upper bound in case a context without deadline slips through.
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// nominatimResult is one entry of the search response; lat/lon arrive as
// strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode queries the search endpoint for the single best result.
func (g *NominatimGeocoder) Geocode(ctx context.Context, location string) (Coordinates, bool, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, false, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to read geocode response: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Lat: lat, Lon: lon}, true, nil
}

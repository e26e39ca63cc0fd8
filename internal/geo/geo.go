// Package geo resolves an approximate latitude/longitude for the current
// machine. The result only biases lead generation toward the user's area, so
// resolution is best-effort: any failure simply means no bias.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is a public IP-geolocation service returning JSON.
const DefaultEndpoint = "http://ip-api.com/json"

// Location is a resolved coordinate pair.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Provider yields the current approximate location.
type Provider interface {
	Locate(ctx context.Context) (*Location, error)
}

// IPLocator resolves location from the machine's public IP address.
type IPLocator struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewIPLocator creates a locator against the default public endpoint.
func NewIPLocator(log *zap.Logger) *IPLocator {
	return NewIPLocatorWithEndpoint(DefaultEndpoint, log)
}

// NewIPLocatorWithEndpoint creates a locator against a custom endpoint.
func NewIPLocatorWithEndpoint(endpoint string, log *zap.Logger) *IPLocator {
	if log == nil {
		log = zap.NewNop()
	}
	return &IPLocator{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        log,
	}
}

// Locate performs a single lookup. Callers treat errors as "no location".
func (l *IPLocator) Locate(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if body.Status != "" && body.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup status %q", body.Status)
	}

	loc := &Location{Latitude: body.Lat, Longitude: body.Lon}
	l.log.Debug("resolved location",
		zap.Float64("lat", loc.Latitude),
		zap.Float64("lng", loc.Longitude))
	return loc, nil
}

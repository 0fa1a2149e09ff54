package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// Geocoder is the reverse geocoding provider wrapper.
type Geocoder struct {
	client
}

// NewGeocoder creates a reverse geocoding client against the given endpoint.
func NewGeocoder(endpoint string, timeout time.Duration, opts ...Option) (*Geocoder, error) {
	c, err := newClient(endpoint, timeout, opts...)
	if err != nil {
		return nil, err
	}

	return &Geocoder{client: c}, nil
}

// geocodeResponse is the provider's reverse geocoding JSON shape.
type geocodeResponse struct {
	// City is the locality name.
	City string `json:"city"`
	// Region is the administrative area, such as a state or province.
	Region string `json:"region"`
}

// ReverseGeocode resolves the fix to a spoken locality label.
func (g *Geocoder) ReverseGeocode(ctx context.Context, fix almanac.LocationFix) (string, error) {
	var response geocodeResponse
	if err := g.getJSON(ctx, coordinateQuery(fix), &response); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}

	if response.City == "" {
		return response.Region, nil
	}

	if response.Region == "" {
		return response.City, nil
	}

	return response.City + ", " + response.Region, nil
}

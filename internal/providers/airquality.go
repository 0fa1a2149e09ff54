package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// AirQuality is the air quality index provider wrapper.
type AirQuality struct {
	client
}

// NewAirQuality creates an air quality client against the given endpoint.
func NewAirQuality(endpoint string, timeout time.Duration, opts ...Option) (*AirQuality, error) {
	c, err := newClient(endpoint, timeout, opts...)
	if err != nil {
		return nil, err
	}

	return &AirQuality{client: c}, nil
}

// airQualityResponse is the provider's AQI JSON shape.
type airQualityResponse struct {
	// AQI is the reported index value.
	AQI int `json:"aqi"`
	// Category is the reported band, such as "good".
	Category string `json:"category"`
}

// Current fetches the air quality index for the fix.
func (a *AirQuality) Current(ctx context.Context, fix almanac.LocationFix) (*almanac.AirQualityReport, error) {
	var response airQualityResponse
	if err := a.getJSON(ctx, coordinateQuery(fix), &response); err != nil {
		return nil, fmt.Errorf("fetch air quality: %w", err)
	}

	return &almanac.AirQualityReport{
		Index:    response.AQI,
		Category: response.Category,
	}, nil
}

package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// Weather is the current-conditions provider wrapper.
type Weather struct {
	client
}

// NewWeather creates a weather client against the given endpoint.
func NewWeather(endpoint string, timeout time.Duration, opts ...Option) (*Weather, error) {
	c, err := newClient(endpoint, timeout, opts...)
	if err != nil {
		return nil, err
	}

	return &Weather{client: c}, nil
}

// weatherResponse is the provider's current-conditions JSON shape.
type weatherResponse struct {
	// TemperatureF is the current temperature in Fahrenheit.
	TemperatureF float64 `json:"temperature_f"`
	// Condition is a short description such as "partly cloudy".
	Condition string `json:"condition"`
	// WindMPH is the sustained wind speed.
	WindMPH float64 `json:"wind_mph"`
}

// Current fetches current conditions for the fix.
func (w *Weather) Current(ctx context.Context, fix almanac.LocationFix) (*almanac.WeatherReport, error) {
	var response weatherResponse
	if err := w.getJSON(ctx, coordinateQuery(fix), &response); err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}

	return &almanac.WeatherReport{
		TemperatureF: response.TemperatureF,
		Condition:    response.Condition,
		WindMPH:      response.WindMPH,
	}, nil
}

package location

import (
	"context"
	"fmt"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// StaticProvider serves a configured coordinate pair as a fresh fix. It is
// the positioning source for hosts without a platform location service.
type StaticProvider struct {
	// Latitude in decimal degrees, north positive.
	Latitude float64
	// Longitude in decimal degrees, east positive.
	Longitude float64
	// Now supplies the capture time; defaults to time.Now.
	Now func() time.Time
}

// GetFix returns the configured coordinates captured at the current time.
func (p StaticProvider) GetFix(context.Context) (almanac.LocationFix, error) {
	fix := almanac.LocationFix{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}

	if !fix.Valid() {
		return almanac.LocationFix{}, fmt.Errorf("configured coordinates out of range: %w", almanac.ErrPositionUnavailable)
	}

	now := p.Now
	if now == nil {
		now = time.Now
	}

	fix.CapturedAt = now()

	return fix, nil
}

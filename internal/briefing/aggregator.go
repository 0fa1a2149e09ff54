package briefing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/tmacready/daybreak/internal/domain/almanac"
	"github.com/tmacready/daybreak/internal/logger"
)

// LocationSource supplies the fix every other slot depends on.
type LocationSource interface {
	Resolve(ctx context.Context) (almanac.LocationFix, error)
}

// WeatherSource supplies current conditions.
type WeatherSource interface {
	Current(ctx context.Context, fix almanac.LocationFix) (*almanac.WeatherReport, error)
}

// AirSource supplies the air quality index.
type AirSource interface {
	Current(ctx context.Context, fix almanac.LocationFix) (*almanac.AirQualityReport, error)
}

// PlaceSource resolves the fix to a spoken locality label.
type PlaceSource interface {
	ReverseGeocode(ctx context.Context, fix almanac.LocationFix) (string, error)
}

// TideSource supplies the ordered tide event sequence.
type TideSource interface {
	Events(ctx context.Context, fix almanac.LocationFix, window time.Duration) ([]almanac.TideEvent, error)
}

// VerseSource supplies the optional verse of the day.
type VerseSource interface {
	OfTheDay(ctx context.Context) (*almanac.Verse, error)
}

// BirdSource supplies the optional bird of the day.
type BirdSource interface {
	OfTheDay(ctx context.Context) (*almanac.Bird, error)
}

// SunFunc computes solar events for coordinates and a date. It is pure and
// runs synchronously, unlike the network-backed sources.
type SunFunc func(latitude, longitude float64, date time.Time) almanac.SunTimes

// Aggregator fans out to every configured data source concurrently,
// tolerates partial failure, and composes one deterministic narration.
// Nil sources simply leave their section out of the narration.
type Aggregator struct {
	// location is the one required source; its failure aborts the briefing.
	location LocationSource
	// weather is the current-conditions slot.
	weather WeatherSource
	// air is the air quality slot.
	air AirSource
	// place is the locality label slot.
	place PlaceSource
	// tide is the tide sequence slot.
	tide TideSource
	// verse is the optional verse slot.
	verse VerseSource
	// bird is the optional bird slot.
	bird BirdSource
	// sun computes solar events; nil omits the section.
	sun SunFunc

	// tideWindow is the tide prediction horizon.
	tideWindow time.Duration
	// callTimeout bounds each slot's call so the fan-in always terminates.
	callTimeout time.Duration
	// now supplies the current time; overridable for tests.
	now func() time.Time
}

// Option configures Aggregator behaviour.
type Option func(*Aggregator)

// WithWeather wires the current-conditions slot.
func WithWeather(s WeatherSource) Option {
	return func(a *Aggregator) { a.weather = s }
}

// WithAir wires the air quality slot.
func WithAir(s AirSource) Option {
	return func(a *Aggregator) { a.air = s }
}

// WithPlace wires the locality label slot.
func WithPlace(s PlaceSource) Option {
	return func(a *Aggregator) { a.place = s }
}

// WithTide wires the tide sequence slot.
func WithTide(s TideSource) Option {
	return func(a *Aggregator) { a.tide = s }
}

// WithVerse wires the optional verse slot.
func WithVerse(s VerseSource) Option {
	return func(a *Aggregator) { a.verse = s }
}

// WithBird wires the optional bird slot.
func WithBird(s BirdSource) Option {
	return func(a *Aggregator) { a.bird = s }
}

// WithSun wires the solar event computation.
func WithSun(f SunFunc) Option {
	return func(a *Aggregator) { a.sun = f }
}

// WithTideWindow overrides the tide prediction horizon.
func WithTideWindow(window time.Duration) Option {
	return func(a *Aggregator) {
		if window > 0 {
			a.tideWindow = window
		}
	}
}

// WithCallTimeout overrides the per-slot timeout.
func WithCallTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.callTimeout = timeout
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

const (
	// defaultTideWindow is the tide horizon when none is configured.
	defaultTideWindow = 24 * time.Hour
	// defaultCallTimeout bounds slot calls when none is configured.
	defaultCallTimeout = 10 * time.Second
)

// errLocationRequired is returned when no location source is provided.
var errLocationRequired = errors.New("location source must be provided")

// NewAggregator creates an aggregator over the required location source and
// whatever optional slots the options wire in.
func NewAggregator(location LocationSource, opts ...Option) (*Aggregator, error) {
	if location == nil {
		return nil, errLocationRequired
	}

	a := &Aggregator{
		location:    location,
		tideWindow:  defaultTideWindow,
		callTimeout: defaultCallTimeout,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Brief gathers every configured slot concurrently and composes the
// narration. Only a location failure is fatal; any other slot's failure
// degrades the narration by omission. Label, when non-empty, is the alarm
// label spoken with the greeting.
func (a *Aggregator) Brief(ctx context.Context, label string) (*almanac.Briefing, error) {
	fix, err := a.resolveLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("briefing aborted: %w", err)
	}

	now := a.now()
	result := &almanac.Briefing{
		GeneratedAt: now,
		Fix:         fix,
	}

	// Each slot runs as its own task; its outcome never cancels or blocks a
	// sibling. The per-slot timeout guarantees the group reaches a terminal
	// state even when a provider hangs.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		slotErrs error
	)

	runSlot := func(name string, fill func(ctx context.Context) error) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			slotCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
			defer cancel()

			if err := fill(slotCtx); err != nil {
				logger.WarnKV(ctx, "Briefing section unavailable", "section", name, "error", err)

				mu.Lock()
				slotErrs = multierr.Append(slotErrs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	if a.place != nil {
		runSlot("place", func(ctx context.Context) error {
			place, err := a.place.ReverseGeocode(ctx, fix)
			if err != nil {
				return err
			}

			result.Place = place

			return nil
		})
	}

	if a.weather != nil {
		runSlot("weather", func(ctx context.Context) error {
			report, err := a.weather.Current(ctx, fix)
			if err != nil {
				return err
			}

			result.Weather = report

			return nil
		})
	}

	if a.tide != nil {
		runSlot("tide", func(ctx context.Context) error {
			events, err := a.tide.Events(ctx, fix, a.tideWindow)
			if err != nil {
				return err
			}

			result.Tides = events

			return nil
		})
	}

	if a.air != nil {
		runSlot("air", func(ctx context.Context) error {
			report, err := a.air.Current(ctx, fix)
			if err != nil {
				return err
			}

			result.Air = report

			return nil
		})
	}

	if a.verse != nil {
		runSlot("verse", func(ctx context.Context) error {
			verse, err := a.verse.OfTheDay(ctx)
			if err != nil {
				return err
			}

			result.Verse = verse

			return nil
		})
	}

	if a.bird != nil {
		runSlot("bird", func(ctx context.Context) error {
			bird, err := a.bird.OfTheDay(ctx)
			if err != nil {
				return err
			}

			result.Bird = bird

			return nil
		})
	}

	// Solar geometry is synchronous and cannot fail; polar day/night simply
	// yields undefined instants.
	if a.sun != nil {
		sunTimes := a.sun(fix.Latitude, fix.Longitude, now)
		result.Sun = &sunTimes
	}

	wg.Wait()

	if slotErrs != nil {
		logger.InfoKV(ctx, "Briefing degraded by failed sections", "errors", slotErrs)
	}

	result.Narration = Compose(result, label)

	return result, nil
}

// resolveLocation obtains the fix under the slot timeout.
func (a *Aggregator) resolveLocation(ctx context.Context) (almanac.LocationFix, error) {
	locationCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	return a.location.Resolve(locationCtx)
}

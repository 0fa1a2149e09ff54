package tide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
	"github.com/tmacready/daybreak/internal/logger"
)

// predictionTimeLayout is the provider's local-time timestamp format.
const predictionTimeLayout = "2006-01-02 15:04"

// Engine resolves the nearest tide station and produces the ordered tide
// event sequence for a briefing.
type Engine struct {
	// client performs the catalog and prediction requests.
	client *http.Client
	// catalogURL lists every station with its coordinates.
	catalogURL string
	// predictionsURL serves high/low predictions per station.
	predictionsURL string
	// now supplies the current time; overridable for tests.
	now func() time.Time
}

// Option configures Engine behaviour.
type Option func(*Engine)

// WithHTTPClient overrides the HTTP client. Used by tests.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.client = client
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// errCatalogURLRequired is returned when the station catalog endpoint is missing.
var errCatalogURLRequired = errors.New("station catalog URL must be provided")

// NewEngine creates a tide engine with a bounded per-call timeout.
func NewEngine(catalogURL, predictionsURL string, timeout time.Duration, opts ...Option) (*Engine, error) {
	if catalogURL == "" || predictionsURL == "" {
		return nil, errCatalogURLRequired
	}

	e := &Engine{
		client:         &http.Client{Timeout: timeout},
		catalogURL:     catalogURL,
		predictionsURL: predictionsURL,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// catalogResponse is the station catalog JSON shape.
type catalogResponse struct {
	// Stations is the full station list.
	Stations []struct {
		ID   string  `json:"id"`
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	} `json:"stations"`
}

// predictionsResponse is the high/low predictions JSON shape.
type predictionsResponse struct {
	// Predictions holds one entry per predicted extreme.
	Predictions []struct {
		// Time of the prediction, local, "2006-01-02 15:04".
		Time string `json:"t"`
		// Height is the string-encoded predicted water level in feet.
		Height string `json:"v"`
		// Type is "H" for high water, "L" for low water.
		Type string `json:"type"`
	} `json:"predictions"`
}

// NearestStation fetches the full station catalog and returns the station
// with the minimum great-circle distance from the fix. Ties keep the first
// station encountered. An empty or unreachable catalog yields
// ErrNoStationFound.
func (e *Engine) NearestStation(ctx context.Context, fix almanac.LocationFix) (almanac.TideStation, error) {
	var catalog catalogResponse
	if err := e.getJSON(ctx, e.catalogURL, &catalog); err != nil {
		return almanac.TideStation{}, fmt.Errorf("fetch station catalog: %w: %w", almanac.ErrNoStationFound, err)
	}

	if len(catalog.Stations) == 0 {
		return almanac.TideStation{}, fmt.Errorf("station catalog is empty: %w", almanac.ErrNoStationFound)
	}

	var (
		nearest almanac.TideStation
		found   bool
	)

	for _, candidate := range catalog.Stations {
		distance := haversineKm(fix.Latitude, fix.Longitude, candidate.Lat, candidate.Lng)
		if found && distance >= nearest.DistanceKm {
			continue
		}

		nearest = almanac.TideStation{
			ID:         candidate.ID,
			Name:       candidate.Name,
			Latitude:   candidate.Lat,
			Longitude:  candidate.Lng,
			DistanceKm: distance,
		}
		found = true
	}

	logger.DebugKV(ctx, "Nearest tide station resolved",
		"station", nearest.ID, "name", nearest.Name, "distance_km", nearest.DistanceKm)

	return nearest, nil
}

// Events returns the ordered tide event sequence for the briefing: the
// predicted extremes of the local day up to now+window, sorted by time
// ascending, with a synthetic current-height event prepended when "now" is
// bracketed by a preceding and a following extreme. The current height is a
// linear interpolation between the bracketing extremes; it is never
// extrapolated outside them.
func (e *Engine) Events(ctx context.Context, fix almanac.LocationFix, window time.Duration) ([]almanac.TideEvent, error) {
	station, err := e.NearestStation(ctx, fix)
	if err != nil {
		return nil, err
	}

	now := e.now()
	// The fetch range starts at local midnight so extremes earlier today can
	// bracket "now" for interpolation.
	begin := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := now.Add(window)

	extremes, err := e.fetchExtremes(ctx, station.ID, begin, end, now.Location())
	if err != nil {
		return nil, err
	}

	sort.Slice(extremes, func(i, j int) bool {
		return extremes[i].Time.Before(extremes[j].Time)
	})

	events := make([]almanac.TideEvent, 0, len(extremes)+1)
	if current, ok := currentEvent(extremes, now); ok {
		events = append(events, current)
	}

	for _, extreme := range extremes {
		if extreme.Time.Before(now) || extreme.Time.After(end) {
			continue
		}

		events = append(events, extreme)
	}

	return events, nil
}

// fetchExtremes requests high/low predictions for the station and range.
func (e *Engine) fetchExtremes(
	ctx context.Context,
	stationID string,
	begin, end time.Time,
	loc *time.Location,
) ([]almanac.TideEvent, error) {
	query := url.Values{}
	query.Set("station", stationID)
	query.Set("begin_date", begin.Format("20060102"))
	query.Set("end_date", end.Format("20060102"))
	query.Set("interval", "hilo")

	requestURL := e.predictionsURL + "?" + query.Encode()

	var response predictionsResponse
	if err := e.getJSON(ctx, requestURL, &response); err != nil {
		return nil, fmt.Errorf("fetch predictions for station %s: %w", stationID, err)
	}

	extremes := make([]almanac.TideEvent, 0, len(response.Predictions))

	for _, prediction := range response.Predictions {
		at, err := time.ParseInLocation(predictionTimeLayout, prediction.Time, loc)
		if err != nil {
			logger.WarnKV(ctx, "Skipping unparsable prediction time", "value", prediction.Time)

			continue
		}

		height, err := strconv.ParseFloat(prediction.Height, 64)
		if err != nil {
			logger.WarnKV(ctx, "Skipping unparsable prediction height", "value", prediction.Height)

			continue
		}

		kind := almanac.TideLow
		if prediction.Type == "H" {
			kind = almanac.TideHigh
		}

		extremes = append(extremes, almanac.TideEvent{
			Kind:       kind,
			Time:       at,
			HeightFeet: height,
		})
	}

	return extremes, nil
}

// currentEvent synthesizes the interpolated current-height event when now is
// bracketed by extremes. It is omitted, never fabricated, otherwise.
func currentEvent(sorted []almanac.TideEvent, now time.Time) (almanac.TideEvent, bool) {
	for i := 1; i < len(sorted); i++ {
		before, after := sorted[i-1], sorted[i]
		if before.Time.After(now) || after.Time.Before(now) {
			continue
		}

		height, ok := Interpolate(before, after, now)
		if !ok {
			continue
		}

		return almanac.TideEvent{
			Kind:       almanac.TideCurrent,
			Time:       now,
			HeightFeet: height,
		}, true
	}

	return almanac.TideEvent{}, false
}

// Interpolate returns the linear interpolation of the height between the
// bracketing events at time "at". It reports false when "at" lies outside
// the bracketed interval.
func Interpolate(before, after almanac.TideEvent, at time.Time) (float64, bool) {
	span := after.Time.Sub(before.Time)
	if span <= 0 || at.Before(before.Time) || at.After(after.Time) {
		return 0, false
	}

	fraction := float64(at.Sub(before.Time)) / float64(span)

	return before.HeightFeet + (after.HeightFeet-before.HeightFeet)*fraction, true
}

// getJSON performs one GET request and decodes the JSON body into out.
func (e *Engine) getJSON(ctx context.Context, requestURL string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	response, err := e.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %w", classify(err), err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %s", almanac.ErrNetwork, response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", classify(err), err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// classify maps a transport failure onto the shared taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return almanac.ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return almanac.ErrTimeout
	}

	return almanac.ErrNetwork
}

package tide

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// seattleFix is the location used across tide engine tests.
var seattleFix = almanac.LocationFix{Latitude: 47.6, Longitude: -122.3}

// newCatalogServer serves a fixed station catalog body.
func newCatalogServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

// TestNearestStationPicksMinimum verifies the closest station wins and ties
// keep the first station encountered.
func TestNearestStationPicksMinimum(t *testing.T) {
	t.Parallel()

	catalog := newCatalogServer(t, `{"stations":[
		{"id":"far","name":"Neah Bay","lat":48.37,"lng":-124.6},
		{"id":"near","name":"Seattle","lat":47.60,"lng":-122.34},
		{"id":"tie","name":"Seattle Twin","lat":47.60,"lng":-122.34}
	]}`)

	e, err := NewEngine(catalog.URL, catalog.URL, time.Second)
	require.NoError(t, err)

	station, err := e.NearestStation(context.Background(), seattleFix)
	require.NoError(t, err)
	require.Equal(t, "near", station.ID)
	require.Less(t, station.DistanceKm, 10.0)
}

// TestNearestStationEmptyCatalog verifies an empty catalog yields
// ErrNoStationFound.
func TestNearestStationEmptyCatalog(t *testing.T) {
	t.Parallel()

	catalog := newCatalogServer(t, `{"stations":[]}`)

	e, err := NewEngine(catalog.URL, catalog.URL, time.Second)
	require.NoError(t, err)

	_, err = e.NearestStation(context.Background(), seattleFix)
	require.ErrorIs(t, err, almanac.ErrNoStationFound)
}

// TestNearestStationUnreachableCatalog verifies a dead endpoint yields
// ErrNoStationFound.
func TestNearestStationUnreachableCatalog(t *testing.T) {
	t.Parallel()

	catalog := newCatalogServer(t, `{}`)
	catalog.Close()

	e, err := NewEngine(catalog.URL, catalog.URL, time.Second)
	require.NoError(t, err)

	_, err = e.NearestStation(context.Background(), seattleFix)
	require.ErrorIs(t, err, almanac.ErrNoStationFound)
}

// TestEventsInterpolatesCurrent runs the documented example: high 3.0 ft at
// 10:00 and low 0.5 ft at 16:00 give 1.75 ft at 13:00.
func TestEventsInterpolatesCurrent(t *testing.T) {
	t.Parallel()

	catalogBody := `{"stations":[{"id":"9447130","name":"Seattle","lat":47.60,"lng":-122.34}]}`
	predictionsBody := `{"predictions":[
		{"t":"2025-06-01 10:00","v":"3.000","type":"H"},
		{"t":"2025-06-01 16:00","v":"0.500","type":"L"},
		{"t":"2025-06-01 22:15","v":"2.800","type":"H"}
	]}`

	mux := http.NewServeMux()
	mux.HandleFunc("/stations", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogBody))
	})
	mux.HandleFunc("/predictions", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "9447130", r.URL.Query().Get("station"))
		require.Equal(t, "hilo", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(predictionsBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	e, err := NewEngine(server.URL+"/stations", server.URL+"/predictions", time.Second,
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	events, err := e.Events(context.Background(), seattleFix, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, events, 3)

	require.Equal(t, almanac.TideCurrent, events[0].Kind)
	require.InDelta(t, 1.75, events[0].HeightFeet, 1e-9)
	require.True(t, events[0].Time.Equal(now))

	require.Equal(t, almanac.TideLow, events[1].Kind)
	require.InDelta(t, 0.5, events[1].HeightFeet, 1e-9)
	require.Equal(t, almanac.TideHigh, events[2].Kind)
}

// TestEventsOmitsCurrentWhenNotBracketed verifies no current event is
// fabricated when every extreme lies after "now".
func TestEventsOmitsCurrentWhenNotBracketed(t *testing.T) {
	t.Parallel()

	catalogBody := `{"stations":[{"id":"9447130","name":"Seattle","lat":47.60,"lng":-122.34}]}`
	predictionsBody := `{"predictions":[
		{"t":"2025-06-01 16:00","v":"0.500","type":"L"},
		{"t":"2025-06-01 22:15","v":"2.800","type":"H"}
	]}`

	mux := http.NewServeMux()
	mux.HandleFunc("/stations", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogBody))
	})
	mux.HandleFunc("/predictions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(predictionsBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	e, err := NewEngine(server.URL+"/stations", server.URL+"/predictions", time.Second,
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	events, err := e.Events(context.Background(), seattleFix, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, almanac.TideLow, events[0].Kind)
}

// TestInterpolateBounded verifies the interpolated height stays between the
// bracketing heights across the whole interval.
func TestInterpolateBounded(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	before := almanac.TideEvent{Kind: almanac.TideHigh, Time: t0, HeightFeet: 3.0}
	after := almanac.TideEvent{Kind: almanac.TideLow, Time: t0.Add(6 * time.Hour), HeightFeet: 0.5}

	for minutes := 0; minutes <= 360; minutes += 15 {
		height, ok := Interpolate(before, after, t0.Add(time.Duration(minutes)*time.Minute))
		require.True(t, ok)
		require.GreaterOrEqual(t, height, 0.5)
		require.LessOrEqual(t, height, 3.0)
	}
}

// TestInterpolateOutsideInterval verifies no extrapolation outside the
// bracketed interval.
func TestInterpolateOutsideInterval(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	before := almanac.TideEvent{Time: t0, HeightFeet: 3.0}
	after := almanac.TideEvent{Time: t0.Add(6 * time.Hour), HeightFeet: 0.5}

	_, ok := Interpolate(before, after, t0.Add(-time.Minute))
	require.False(t, ok)

	_, ok = Interpolate(before, after, t0.Add(6*time.Hour+time.Minute))
	require.False(t, ok)

	// Degenerate interval.
	_, ok = Interpolate(after, before, t0.Add(time.Hour))
	require.False(t, ok)
}

// TestHaversineKnownDistance checks the Seattle to Portland distance is near
// the published 233 km.
func TestHaversineKnownDistance(t *testing.T) {
	t.Parallel()

	distance := haversineKm(47.6062, -122.3321, 45.5152, -122.6784)
	require.InDelta(t, 233, distance, 5)
}

package almanac

import "time"

// Alarm is a user-scheduled briefing trigger.
type Alarm struct {
	// ID uniquely identifies the alarm in the trigger store.
	ID string
	// ScheduledAt is the next instant the alarm fires.
	ScheduledAt time.Time
	// RepeatDaily requests a daily repeat cadence from the trigger store.
	RepeatDaily bool
	// Label is an optional user-facing name spoken with the greeting.
	Label string
	// Enabled indicates whether the alarm is currently active.
	Enabled bool
}

// Clone returns a copy of the alarm.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// LocationFix is a geographic position at a point in time.
type LocationFix struct {
	// Latitude in decimal degrees, north positive.
	Latitude float64
	// Longitude in decimal degrees, east positive.
	Longitude float64
	// AccuracyMeters is the reported horizontal accuracy.
	AccuracyMeters float64
	// CapturedAt is when the fix was obtained.
	CapturedAt time.Time
}

// Valid reports whether the coordinates are within geographic bounds.
func (f LocationFix) Valid() bool {
	return f.Latitude >= -90 && f.Latitude <= 90 &&
		f.Longitude >= -180 && f.Longitude <= 180
}

// ExpiredAt reports whether the fix is older than maxAge at the given instant.
func (f LocationFix) ExpiredAt(now time.Time, maxAge time.Duration) bool {
	return now.Sub(f.CapturedAt) > maxAge
}

// TideStation is a tide prediction station selected per briefing.
type TideStation struct {
	// ID is the station identifier used in prediction requests.
	ID string
	// Name is the human-readable station name.
	Name string
	// Latitude in decimal degrees.
	Latitude float64
	// Longitude in decimal degrees.
	Longitude float64
	// DistanceKm is the great-circle distance from the briefing location.
	DistanceKm float64
}

// TideKind classifies a tide event.
type TideKind string

const (
	// TideHigh is a predicted high water extreme.
	TideHigh TideKind = "high"
	// TideLow is a predicted low water extreme.
	TideLow TideKind = "low"
	// TideCurrent is the synthetic interpolated height at "now".
	TideCurrent TideKind = "current"
)

// TideEvent is one entry of the ordered tide sequence for a briefing.
type TideEvent struct {
	// Kind distinguishes extremes from the synthetic current event.
	Kind TideKind
	// Time is the event instant in the station's local time.
	Time time.Time
	// HeightFeet is the predicted or interpolated water height.
	HeightFeet float64
}

// SunTimes holds the solar event instants for one date and location.
// A nil instant means the event does not occur that day (polar day or night).
type SunTimes struct {
	// Sunrise at the official zenith of 90.833 degrees.
	Sunrise *time.Time
	// Sunset at the official zenith of 90.833 degrees.
	Sunset *time.Time
	// CivilDawn at the civil twilight zenith of 96 degrees.
	CivilDawn *time.Time
	// CivilDusk at the civil twilight zenith of 96 degrees.
	CivilDusk *time.Time
}

// WeatherReport is the normalized current-conditions result.
type WeatherReport struct {
	// TemperatureF is the current temperature in Fahrenheit.
	TemperatureF float64
	// Condition is a short description such as "partly cloudy".
	Condition string
	// WindMPH is the sustained wind speed.
	WindMPH float64
}

// AirQualityReport is the normalized air quality result.
type AirQualityReport struct {
	// Index is the reported AQI value.
	Index int
	// Category is the reported band, such as "good" or "moderate".
	Category string
}

// Verse is an optional supplementary fact: a verse of the day.
type Verse struct {
	// Text is the verse body.
	Text string
	// Reference names the source of the verse.
	Reference string
}

// Bird is an optional supplementary fact: a bird of the day.
type Bird struct {
	// Name is the common name of the bird.
	Name string
	// Fact is a one-sentence note about it.
	Fact string
}

// Briefing is the in-memory composition of one briefing invocation.
// Nil sections were unavailable and are omitted from the narration.
type Briefing struct {
	// GeneratedAt is the local instant the briefing was composed for.
	GeneratedAt time.Time
	// Fix is the location every engine was keyed on.
	Fix LocationFix
	// Place is the reverse-geocoded locality label.
	Place string
	// Weather is the current-conditions section.
	Weather *WeatherReport
	// Sun is the solar events section.
	Sun *SunTimes
	// Tides is the ordered tide event sequence.
	Tides []TideEvent
	// Air is the air quality section.
	Air *AirQualityReport
	// Verse is the optional verse of the day.
	Verse *Verse
	// Bird is the optional bird of the day.
	Bird *Bird
	// Narration is the final composed text handed to the voice output.
	Narration string
}

package sun

import (
	"math"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

const (
	// ZenithOfficial is the zenith angle defining apparent sunrise and sunset.
	ZenithOfficial = 90.833
	// ZenithCivil is the zenith angle defining civil dawn and dusk.
	ZenithCivil = 96.0

	// obliquity of the ecliptic in degrees, treated as constant at date-only
	// precision.
	obliquity = 23.439

	// minutesPerDegree converts a hour angle in degrees to minutes of time.
	minutesPerDegree = 4.0
)

// solarDay holds the per-date solar quantities shared by all four events.
type solarDay struct {
	// declinationDeg is the sun's declination in degrees.
	declinationDeg float64
	// eqTimeMinutes is the equation of time in minutes.
	eqTimeMinutes float64
}

// Times computes sunrise, sunset and civil twilight instants for the given
// coordinates on the calendar date of "date", interpreted in date's location.
// A nil instant means the event does not occur that day (polar day or night).
func Times(latitude, longitude float64, date time.Time) almanac.SunTimes {
	var (
		midnight = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		day      = computeSolarDay(date)
	)

	_, offsetSeconds := midnight.Zone()
	solarNoonMinutes := 720 - minutesPerDegree*longitude - day.eqTimeMinutes + float64(offsetSeconds)/60

	rise, set := day.crossings(latitude, ZenithOfficial, solarNoonMinutes, midnight)
	dawn, dusk := day.crossings(latitude, ZenithCivil, solarNoonMinutes, midnight)

	return almanac.SunTimes{
		Sunrise:   rise,
		Sunset:    set,
		CivilDawn: dawn,
		CivilDusk: dusk,
	}
}

// computeSolarDay derives declination and equation of time for the date.
func computeSolarDay(date time.Time) solarDay {
	jc := julianCentury(date)

	// Geometric mean longitude and mean anomaly of the sun, degrees.
	meanLong := math.Mod(280.46646+jc*(36000.76983+jc*0.0003032), 360)
	meanAnom := 357.52911 + jc*(35999.05029-0.0001537*jc)

	// Equation of center corrects the mean anomaly to the true position.
	center := math.Sin(radians(meanAnom))*(1.914602-jc*(0.004817+0.000014*jc)) +
		math.Sin(radians(2*meanAnom))*(0.019993-0.000101*jc) +
		math.Sin(radians(3*meanAnom))*0.000289

	trueLong := meanLong + center

	declination := degrees(math.Asin(math.Sin(radians(obliquity)) * math.Sin(radians(trueLong))))

	// Equation of time, minutes.
	eccentricity := 0.016708634 - jc*(0.000042037+0.0000001267*jc)
	y := math.Tan(radians(obliquity / 2))
	y *= y

	eqTime := minutesPerDegree * degrees(
		y*math.Sin(2*radians(meanLong))-
			2*eccentricity*math.Sin(radians(meanAnom))+
			4*eccentricity*y*math.Sin(radians(meanAnom))*math.Cos(2*radians(meanLong))-
			0.5*y*y*math.Sin(4*radians(meanLong))-
			1.25*eccentricity*eccentricity*math.Sin(2*radians(meanAnom)))

	return solarDay{
		declinationDeg: declination,
		eqTimeMinutes:  eqTime,
	}
}

// crossings returns the rising and setting instants for the given zenith, or
// nil instants when the sun never crosses it that day.
func (d solarDay) crossings(latitude, zenith, solarNoonMinutes float64, midnight time.Time) (rise, set *time.Time) {
	cosHourAngle := (math.Cos(radians(zenith)) -
		math.Sin(radians(latitude))*math.Sin(radians(d.declinationDeg))) /
		(math.Cos(radians(latitude)) * math.Cos(radians(d.declinationDeg)))

	// Outside [-1, 1] the crossing does not occur: polar day or polar night.
	if cosHourAngle < -1 || cosHourAngle > 1 {
		return nil, nil
	}

	hourAngle := degrees(math.Acos(cosHourAngle))

	riseAt := minuteOfDay(midnight, solarNoonMinutes-minutesPerDegree*hourAngle)
	setAt := minuteOfDay(midnight, solarNoonMinutes+minutesPerDegree*hourAngle)

	return &riseAt, &setAt
}

// julianCentury converts the calendar date to Julian centuries since J2000.
func julianCentury(date time.Time) float64 {
	var (
		year  = date.Year()
		month = int(date.Month())
		day   = date.Day()
	)

	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3

	jdn := day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045

	return (float64(jdn) - 2451545.0) / 36525.0
}

// minuteOfDay maps fractional minutes past local midnight to an instant.
func minuteOfDay(midnight time.Time, minutes float64) time.Time {
	return midnight.Add(time.Duration(minutes * float64(time.Minute)))
}

// radians converts degrees to radians.
func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// degrees converts radians to degrees.
func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

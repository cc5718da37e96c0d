// Package sun computes solar position from site coordinates.
//
// It is the fallback source for sun elevation when no elevation sensor
// publishes readings, and it derives the meteorological season used by
// the environmental boost calculator. The elevation formula is the
// standard low-precision solar ephemeris (mean anomaly, equation of
// centre, ecliptic longitude, declination, hour angle); accuracy is well
// within a degree, which is ample for lighting decisions.
package sun

import (
	"math"
	"time"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// j2000 is the Julian date of the J2000.0 epoch.
	j2000 = 2451545.0

	// obliquity is Earth's axial tilt in degrees.
	obliquity = 23.44
)

// Season is a meteorological season.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
)

// Calculator computes solar position for a fixed site.
type Calculator struct {
	latitude  float64
	longitude float64
}

// NewCalculator creates a Calculator for the given coordinates.
//
// Parameters:
//   - latitude: Degrees north (negative = south)
//   - longitude: Degrees east (negative = west)
func NewCalculator(latitude, longitude float64) *Calculator {
	return &Calculator{latitude: latitude, longitude: longitude}
}

// Elevation returns the sun's elevation above the horizon in degrees at
// the given instant. Negative values mean the sun is below the horizon.
func (c *Calculator) Elevation(t time.Time) float64 {
	jd := julianDay(t.UTC())
	d := jd - j2000

	// Mean anomaly and ecliptic longitude of the sun.
	g := math.Mod(357.529+0.98560028*d, 360.0)
	q := math.Mod(280.459+0.98564736*d, 360.0)
	gRad := g * degToRad
	l := q + 1.915*math.Sin(gRad) + 0.020*math.Sin(2*gRad)
	lRad := l * degToRad

	// Declination and right ascension.
	e := obliquity * degToRad
	sinDec := math.Sin(e) * math.Sin(lRad)
	dec := math.Asin(sinDec)
	ra := math.Atan2(math.Cos(e)*math.Sin(lRad), math.Cos(lRad)) * radToDeg

	// Greenwich mean sidereal time, then local hour angle.
	gmst := math.Mod(280.46061837+360.98564736629*d, 360.0)
	ha := math.Mod(gmst+c.longitude-ra, 360.0)
	if ha > 180 {
		ha -= 360
	}
	haRad := ha * degToRad

	latRad := c.latitude * degToRad
	sinElev := math.Sin(latRad)*math.Sin(dec) + math.Cos(latRad)*math.Cos(dec)*math.Cos(haRad)
	return math.Asin(sinElev) * radToDeg
}

// julianDay converts a UTC time to a Julian date.
func julianDay(t time.Time) float64 {
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	if m <= 2 {
		y--
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5
	dayFrac := (float64(t.Hour()) + float64(t.Minute())/60.0 + float64(t.Second())/3600.0) / 24.0
	return jd + dayFrac
}

// SeasonAt returns the meteorological season for the given time in the
// northern hemisphere; hemispheres are swapped for southern latitudes.
func (c *Calculator) SeasonAt(t time.Time) Season {
	s := northernSeason(t.Month())
	if c.latitude < 0 {
		return oppositeSeason(s)
	}
	return s
}

// northernSeason maps a month to its northern-hemisphere meteorological season.
func northernSeason(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// oppositeSeason swaps hemispheres.
func oppositeSeason(s Season) Season {
	switch s {
	case SeasonWinter:
		return SeasonSummer
	case SeasonSummer:
		return SeasonWinter
	case SeasonSpring:
		return SeasonFall
	default:
		return SeasonSpring
	}
}

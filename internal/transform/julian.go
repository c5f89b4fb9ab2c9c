package transform

import (
	"math"
	"time"
)

const (
	// jdUnixEpoch is the Julian Day of 1970-01-01T00:00:00 UTC.
	jdUnixEpoch = 2440587.5

	// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
	j2000 = 2451545.0

	// mjdOffset converts Julian Day to Modified Julian Day.
	mjdOffset = 2400000.5

	millisPerDay   = 86400000.0
	daysPerCentury = 36525.0
)

// JulianDay converts a UTC millisecond timestamp to Julian Day.
// Exact to double precision at whole and half days.
func JulianDay(ms int64) float64 {
	return jdUnixEpoch + float64(ms)/millisPerDay
}

// JulianDayAt is JulianDay for a time.Time, truncated to milliseconds.
func JulianDayAt(t time.Time) float64 {
	return JulianDay(t.UnixMilli())
}

// JulianCenturiesSinceJ2000 returns Julian centuries elapsed since J2000.0.
func JulianCenturiesSinceJ2000(ms int64) float64 {
	return (JulianDay(ms) - j2000) / daysPerCentury
}

// MJD returns the Modified Julian Day for a UTC millisecond timestamp.
func MJD(ms int64) float64 {
	return JulianDay(ms) - mjdOffset
}

// JulianDate converts a time.Time (UTC) to Julian Date using the calendar
// algorithm (Meeus ch. 7). Valid for Gregorian dates.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour())
	min := float64(t.Minute())
	s := float64(t.Second()) + float64(t.Nanosecond())/1e9

	// Jan/Feb count as months 13/14 of the previous year.
	if m <= 2 {
		y -= 1
		m += 12
	}

	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + B - 1524.5
	jd += (h + min/60.0 + s/3600.0) / 24.0

	return jd
}

// JulianDayAtYearStart returns the Julian Day of January 1, 00:00 UTC of year.
func JulianDayAtYearStart(year int) float64 {
	return JulianDate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}

// GMST calculates Greenwich Mean Sidereal Time in radians for a given UTC time.
// Uses the IAU-82 model as described in Vallado "Fundamentals of Astrodynamics".
//
// Formula (Vallado Eq 3-47):
//
//	θ_GMST = 67310.54841 + (876600h + 8640184.812866)*T + 0.093104*T² - 6.2e-6*T³
//
// where T is Julian centuries of UT1 from J2000.0, result is in seconds of time.
func GMST(t time.Time) float64 {
	return gmstFromJD(JulianDate(t))
}

func gmstFromJD(jd float64) float64 {
	tUT1 := (jd - j2000) / daysPerCentury

	// 876600h = 3155760000 seconds.
	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*tUT1 +
		0.093104*tUT1*tUT1 -
		6.2e-6*tUT1*tUT1*tUT1

	gmstSec = math.Mod(gmstSec, 86400.0)
	if gmstSec < 0 {
		gmstSec += 86400.0
	}
	return gmstSec / 86400.0 * 2.0 * math.Pi
}

// GMSTFromMillis is GMST for a UTC millisecond timestamp.
func GMSTFromMillis(ms int64) float64 {
	return gmstFromJD(JulianDay(ms))
}

package ephemeris

import (
	"math"

	"github.com/star/skyfix/internal/transform"
)

// NOAA solar position algorithm (Meeus-derived, as used by the NOAA solar
// calculator). Good to about 0.01° for years 1800-2100.

const (
	minutesPerDay = 1440.0
	// The hour-angle formula is singular at the geographic poles.
	solarLatitudeLimit = 89.8
)

// solarTerms are the time-only parts of the solar position.
type solarTerms struct {
	declination float64 // radians
	eqTime      float64 // minutes
	dayMinutes  float64 // minutes since 00:00 UT
}

func newSolarTerms(ms int64) solarTerms {
	jd := transform.JulianDay(ms)
	t := transform.JulianCenturiesSinceJ2000(ms)

	return solarTerms{
		declination: sunDeclination(t) * transform.Rad,
		eqTime:      equationOfTime(t),
		dayMinutes:  (jd + 0.5 - math.Floor(jd+0.5)) * minutesPerDay,
	}
}

// noaaLongitude converts an East-positive longitude to the West-positive
// convention of the NOAA formulas. It is the only place the sign flips.
func noaaLongitude(lonEastDeg float64) float64 {
	return -lonEastDeg
}

func (s solarTerms) horizontal(latDeg, lonDeg float64) Horizontal {
	latDeg = math.Max(-solarLatitudeLimit, math.Min(solarLatitudeLimit, latDeg))
	lonWest := noaaLongitude(lonDeg)

	trueSolarTime := s.dayMinutes + s.eqTime - 4*lonWest
	trueSolarTime -= minutesPerDay * math.Floor(trueSolarTime/minutesPerDay)

	lat := latDeg * transform.Rad
	sinLat, cosLat := math.Sincos(lat)
	sinDec, cosDec := math.Sincos(s.declination)

	hourAngle := (trueSolarTime/4 - 180) * transform.Rad
	csz := clampUnit(sinLat*sinDec + cosLat*cosDec*math.Cos(hourAngle))
	zenith := math.Acos(csz)

	var azimuth float64
	if azDenom := cosLat * math.Sin(zenith); math.Abs(azDenom) > 0.001 {
		azRad := clampUnit((sinLat*math.Cos(zenith) - sinDec) / azDenom)
		azimuth = 180 - math.Acos(azRad)*transform.Deg
		if trueSolarTime > minutesPerDay/2 {
			azimuth = -azimuth
		}
	} else if lat > 0 {
		azimuth = 180
	}

	zenithDeg := zenith * transform.Deg
	return Horizontal{
		AzimuthDeg:   transform.Normalize360(azimuth),
		ElevationDeg: 90 - (zenithDeg - solarRefraction(zenithDeg)),
	}
}

// SolarPosition returns the apparent (refracted) azimuth and elevation of
// the Sun. Longitude is East-positive.
func SolarPosition(ms int64, latDeg, lonDeg float64) (Horizontal, error) {
	if err := validateCoordinate(latDeg, lonDeg); err != nil {
		return Horizontal{}, err
	}
	return newSolarTerms(ms).horizontal(latDeg, transform.NormalizeLongitude(lonDeg)), nil
}

func sunGeometricMeanLongitude(t float64) float64 {
	l0 := 280.46646 + t*(36000.76983+0.0003032*t)
	return l0 - 360*math.Floor(l0/360)
}

func sunGeometricMeanAnomaly(t float64) float64 {
	return 357.52911 + t*(35999.05029-0.0001537*t)
}

func sunEquationOfCenter(t float64) float64 {
	m := sunGeometricMeanAnomaly(t) * transform.Rad
	return math.Sin(m)*(1.914602-t*(0.004817+0.000014*t)) +
		math.Sin(2*m)*(0.019993-0.000101*t) +
		math.Sin(3*m)*0.000289
}

func sunApparentLongitude(t float64) float64 {
	omega := (125.04 - 1934.136*t) * transform.Rad
	return sunGeometricMeanLongitude(t) + sunEquationOfCenter(t) - 0.00569 - 0.00478*math.Sin(omega)
}

func eccentricityEarthOrbit(t float64) float64 {
	return 0.016708634 - t*(0.000042037+0.0000001267*t)
}

func meanObliquityOfEcliptic(t float64) float64 {
	seconds := 21.448 - t*(46.8150+t*(0.00059-t*0.001813))
	return 23.0 + (26.0+seconds/60.0)/60.0
}

func obliquityCorrected(t float64) float64 {
	omega := (125.04 - 1934.136*t) * transform.Rad
	return meanObliquityOfEcliptic(t) + 0.00256*math.Cos(omega)
}

// sunDeclination returns degrees.
func sunDeclination(t float64) float64 {
	e := obliquityCorrected(t) * transform.Rad
	lambda := sunApparentLongitude(t) * transform.Rad
	return math.Asin(math.Sin(e)*math.Sin(lambda)) * transform.Deg
}

// equationOfTime returns minutes of time.
func equationOfTime(t float64) float64 {
	eps := obliquityCorrected(t) * transform.Rad
	l0 := sunGeometricMeanLongitude(t) * transform.Rad
	m := sunGeometricMeanAnomaly(t) * transform.Rad
	e := eccentricityEarthOrbit(t)

	y := math.Tan(eps / 2)
	y *= y

	sin2l0 := math.Sin(2 * l0)
	cos2l0 := math.Cos(2 * l0)
	sin4l0 := math.Sin(4 * l0)
	sinM := math.Sin(m)
	sin2m := math.Sin(2 * m)

	eq := y*sin2l0 - 2*e*sinM + 4*e*y*sinM*cos2l0 - 0.5*y*y*sin4l0 - 1.25*e*e*sin2m
	return eq * transform.Deg * 4
}

// solarRefraction is NOAA's piecewise refraction for the exo-atmospheric
// zenith angle, in degrees.
func solarRefraction(zenithDeg float64) float64 {
	elev := 90 - zenithDeg
	if elev > 85 {
		return 0
	}

	te := math.Tan(elev * transform.Rad)
	var arcsec float64
	switch {
	case elev > 5:
		arcsec = 58.1/te - 0.07/(te*te*te) + 0.000086/(te*te*te*te*te)
	case elev > -0.575:
		arcsec = 1735.0 + elev*(-518.2+elev*(103.4+elev*(-12.79+elev*0.711)))
	default:
		arcsec = -20.774 / te
	}
	return arcsec / 3600
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

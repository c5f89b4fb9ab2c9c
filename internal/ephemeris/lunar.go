package ephemeris

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/transform"
)

// The ELP-2000/82 truncation in moonposition is fitted to modern dates;
// outside this span the series is not trusted.
const (
	lunarMinYear = -1000
	lunarMaxYear = 3000
)

// lunarTerms are the time-only parts of the lunar position: the apparent
// geocentric Moon rotated into the Earth-fixed frame.
type lunarTerms struct {
	ecef transform.PositionECEF
}

// deltaT approximates TT−UT in seconds (Espenak & Meeus polynomial for
// 2005-2050, used as-is outside that span).
func deltaT(year float64) float64 {
	y := year - 2000
	return 62.92 + 0.32217*y + 0.005589*y*y
}

// lunarEquatorial returns the apparent geocentric right ascension and
// declination of the Moon (equinox of date) and its distance in km.
func lunarEquatorial(jde float64) (ra unit.RA, dec unit.Angle, distKm float64, eps unit.Angle, dPsi unit.Angle) {
	lambda, beta, dist := moonposition.Position(jde)
	dPsi, dEps := nutation.Nutation(jde)
	eps = nutation.MeanObliquity(jde) + dEps

	sEps, cEps := math.Sincos(eps.Rad())
	ra, dec = coord.EclToEq(lambda+dPsi, beta, sEps, cEps)
	return ra, dec, dist, eps, dPsi
}

func newLunarTerms(ms int64) (lunarTerms, error) {
	jd := transform.JulianDay(ms)
	year := 2000 + (jd-2451545)/365.25
	if math.IsNaN(year) || year < lunarMinYear || year > lunarMaxYear {
		return lunarTerms{}, fmt.Errorf("%w: lunar series undefined for year %.0f", ErrComputationFailure, year)
	}

	jde := jd + deltaT(year)/86400
	ra, dec, dist, eps, dPsi := lunarEquatorial(jde)

	// Apparent sidereal time: GMST plus the equation of the equinoxes.
	gast := transform.GMSTFromMillis(ms) + dPsi.Rad()*math.Cos(eps.Rad())
	ecef := transform.ECIToECEF(transform.EquatorialToECI(ra.Rad(), dec.Rad(), dist), gast)
	if !ecef.Finite() || ecef.Magnitude() == 0 {
		return lunarTerms{}, fmt.Errorf("%w: non-finite lunar position at JD %.5f", ErrComputationFailure, jd)
	}
	return lunarTerms{ecef: ecef}, nil
}

// horizontal returns topocentric coordinates, parallax included, with the
// elevation refracted for the given conditions.
func (l lunarTerms) horizontal(latDeg, lonDeg float64, c atmosphere.Conditions) (Horizontal, error) {
	look := transform.NewObserverPosition(latDeg, lonDeg, 0).LookAt(l.ecef)
	if math.IsNaN(look.AzimuthDeg) || math.IsNaN(look.ElevationDeg) {
		return Horizontal{}, fmt.Errorf("%w: lunar look angles at (%.4f, %.4f)", ErrComputationFailure, latDeg, lonDeg)
	}
	return Horizontal{
		AzimuthDeg:   transform.Normalize360(look.AzimuthDeg),
		ElevationDeg: atmosphere.ApparentElevation(look.ElevationDeg, c),
	}, nil
}

// LunarPosition returns the apparent topocentric azimuth and elevation of
// the Moon under standard atmospheric conditions. Longitude is East-positive.
func LunarPosition(ms int64, latDeg, lonDeg float64) (Horizontal, error) {
	if err := validateCoordinate(latDeg, lonDeg); err != nil {
		return Horizontal{}, err
	}
	terms, err := newLunarTerms(ms)
	if err != nil {
		return Horizontal{}, err
	}
	return terms.horizontal(latDeg, transform.NormalizeLongitude(lonDeg), atmosphere.StandardConditions())
}

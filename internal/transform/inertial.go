// Package transform provides time scales and coordinate frame transformations
// shared by the ephemeris, geomagnetic and estimator packages.
//
// Inertial positions are rotated into ECEF by a single sidereal angle about
// the pole. ECIToECEF takes that angle from the caller: GMST for a mean
// equator frame, or apparent sidereal time (GMST plus the equation of the
// equinoxes) for apparent coordinates, as the lunar ephemeris uses. Polar
// motion is ignored.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3.
package transform

import "math"

// PositionECI is a geocentric position in the equatorial frame of date, in km.
type PositionECI struct {
	X, Y, Z float64
}

// PositionECEF is an Earth-fixed position in meters.
type PositionECEF struct {
	X, Y, Z float64
}

// EquatorialToECI converts right ascension and declination (radians) and a
// geocentric distance (km) to a cartesian inertial position.
func EquatorialToECI(raRad, decRad, distKm float64) PositionECI {
	cosDec := math.Cos(decRad)
	return PositionECI{
		X: distKm * cosDec * math.Cos(raRad),
		Y: distKm * cosDec * math.Sin(raRad),
		Z: distKm * math.Sin(decRad),
	}
}

// ECIToECEF rotates an inertial position into ECEF by the sidereal angle
// theta (radians, mean or apparent).
//
//	r_ECEF = R3(θ) * r_ECI
//
// Input is km, output is meters.
func ECIToECEF(eci PositionECI, theta float64) PositionECEF {
	cosG := math.Cos(theta)
	sinG := math.Sin(theta)

	return PositionECEF{
		X: (eci.X*cosG + eci.Y*sinG) * 1000.0,
		Y: (-eci.X*sinG + eci.Y*cosG) * 1000.0,
		Z: eci.Z * 1000.0,
	}
}

// Finite reports whether every component is a finite number.
func (p PositionECEF) Finite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Magnitude returns the distance from the Earth's centre in meters.
func (p PositionECEF) Magnitude() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

package transform

import "math"

const (
	// Deg converts radians to degrees.
	Deg = 180.0 / math.Pi
	// Rad converts degrees to radians.
	Rad = math.Pi / 180.0
)

// NormalizeLongitude wraps lon (degrees) into (-180, 180].
func NormalizeLongitude(lon float64) float64 {
	l := math.Mod(lon, 360)
	switch {
	case l <= -180:
		l += 360
	case l > 180:
		l -= 360
	}
	return l
}

// Normalize360 wraps an angle in degrees into [0, 360).
func Normalize360(a float64) float64 {
	l := math.Mod(a, 360)
	if l < 0 {
		l += 360
	}
	if l >= 360 {
		l = 0
	}
	return l
}

// NormalizeLongitudeRad wraps lon (radians) into (-π, π].
func NormalizeLongitudeRad(lon float64) float64 {
	l := math.Mod(lon, 2*math.Pi)
	switch {
	case l <= -math.Pi:
		l += 2 * math.Pi
	case l > math.Pi:
		l -= 2 * math.Pi
	}
	return l
}

// AngleDiff returns a-b wrapped into (-180, 180].
func AngleDiff(a, b float64) float64 {
	return NormalizeLongitude(a - b)
}

// ValidLatitude reports whether lat is a finite latitude in [-90, 90].
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is finite. Any finite longitude is
// accepted and normalized by callers.
func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && !math.IsInf(lon, 0)
}

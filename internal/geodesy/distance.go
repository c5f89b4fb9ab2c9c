// Package geodesy computes surface distances between two geodetic points
// under four Earth models, plus WGS84 normal gravity.
package geodesy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/star/skyfix/internal/transform"
)

// EarthRadius is the mean spherical radius in meters used by the plane,
// sphere and haversine models.
const EarthRadius = 6372797.0

// maxLatRad admits ±90° after a degree conversion rounding.
const maxLatRad = math.Pi/2 + 1e-12

var (
	// ErrInvalidInput is returned for unknown models or units and non-finite coordinates.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoConvergence is returned when the ellipsoid model cannot produce a distance.
	ErrNoConvergence = errors.New("vincenty formula failed to converge")
)

// Model selects the Earth model used by Distance.
type Model int

const (
	Plane Model = iota
	Sphere
	Haversine
	Ellipsoid
)

var modelNames = [...]string{"plane", "sphere", "haversine", "ellipsoid"}

func (m Model) String() string {
	if m < 0 || int(m) >= len(modelNames) {
		return fmt.Sprintf("Model(%d)", int(m))
	}
	return modelNames[m]
}

// ParseModel parses a model name (case-insensitive). "vincenty" is an alias
// for the ellipsoid model.
func ParseModel(s string) (Model, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "vincenty" {
		return Ellipsoid, nil
	}
	for i, name := range modelNames {
		if s == name {
			return Model(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown distance model %q", ErrInvalidInput, s)
}

// AngleUnit is the unit of the coordinates passed to Distance.
type AngleUnit int

const (
	Degrees AngleUnit = iota
	Radians
)

// Distance returns the surface distance in meters between two points. On
// failure it returns NaN together with the error.
func Distance(model Model, unit AngleUnit, lat1, lon1, lat2, lon2 float64) (float64, error) {
	for _, v := range [4]float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.NaN(), fmt.Errorf("%w: non-finite coordinate", ErrInvalidInput)
		}
	}

	switch unit {
	case Degrees:
		lat1, lon1 = lat1*transform.Rad, lon1*transform.Rad
		lat2, lon2 = lat2*transform.Rad, lon2*transform.Rad
	case Radians:
	default:
		return math.NaN(), fmt.Errorf("%w: unknown angle unit %d", ErrInvalidInput, unit)
	}
	if math.Abs(lat1) > maxLatRad || math.Abs(lat2) > maxLatRad {
		return math.NaN(), fmt.Errorf("%w: latitude outside [-90, 90]", ErrInvalidInput)
	}

	switch model {
	case Plane:
		return plane(lat1, lon1, lat2, lon2), nil
	case Sphere:
		return sphere(lat1, lon1, lat2, lon2), nil
	case Haversine:
		return haversine(lat1, lon1, lat2, lon2), nil
	case Ellipsoid:
		return vincenty(lat1, lon1, lat2, lon2, maxSplitDepth)
	default:
		return math.NaN(), fmt.Errorf("%w: unknown distance model %d", ErrInvalidInput, model)
	}
}

// plane treats the lat/lon difference as a flat cartesian offset.
func plane(lat1, lon1, lat2, lon2 float64) float64 {
	dLon := transform.NormalizeLongitudeRad(lon2 - lon1)
	dLat := lat2 - lat1
	return EarthRadius * math.Sqrt(dLon*dLon+dLat*dLat)
}

// sphere uses the spherical law of cosines.
func sphere(lat1, lon1, lat2, lon2 float64) float64 {
	c := math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1) + math.Sin(lat1)*math.Sin(lat2)
	// Rounding can push c just past ±1 for coincident or antipodal points.
	c = math.Max(-1, math.Min(1, c))
	return EarthRadius * math.Acos(c)
}

func hav(a float64) float64 {
	s := math.Sin(a / 2)
	return s * s
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	h := hav(lat2-lat1) + math.Cos(lat1)*math.Cos(lat2)*hav(lon2-lon1)
	return EarthRadius * 2 * math.Asin(math.Sqrt(math.Min(1, h)))
}

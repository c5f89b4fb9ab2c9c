package locator

import (
	"fmt"
	"math"
	"time"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/ephemeris"
	"github.com/star/skyfix/internal/geodesy"
	"github.com/star/skyfix/internal/transform"
)

// Coordinate is a geodetic position in degrees, longitude East-positive in
// (-180, 180].
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Measurement is one sensor sample of a celestial target.
type Measurement struct {
	Time   time.Time        `json:"time"`
	Target ephemeris.Target `json:"target"`

	AzimuthMagneticDeg float64 `json:"azimuth_magnetic_deg"`
	ElevationDeg       float64 `json:"elevation_deg"`
	InclinationDeg     float64 `json:"inclination_deg"`
	IntensityMicroT    float64 `json:"intensity_micro_t"`

	// AltitudeM is the height above mean sea level, when known.
	AltitudeM *float64 `json:"altitude_m,omitempty"`
	// Conditions, when set, refract the predicted lunar elevation and, with
	// a plausible pressure and no AltitudeM, give a barometric altitude.
	Conditions *atmosphere.Conditions `json:"conditions,omitempty"`
}

// Validate reports why m cannot be used for an estimate.
func (m Measurement) Validate() error {
	if m.Time.IsZero() {
		return fmt.Errorf("%w: missing time", ErrInvalidInput)
	}
	if !m.Target.Valid() {
		return fmt.Errorf("%w: unknown target %v", ErrInvalidInput, m.Target)
	}
	if !finite(m.AzimuthMagneticDeg) {
		return fmt.Errorf("%w: azimuth %v", ErrInvalidInput, m.AzimuthMagneticDeg)
	}
	if !finite(m.ElevationDeg) || math.Abs(m.ElevationDeg) > 90 {
		return fmt.Errorf("%w: elevation %v outside [-90, 90]", ErrInvalidInput, m.ElevationDeg)
	}
	if !finite(m.InclinationDeg) || math.Abs(m.InclinationDeg) > 90 {
		return fmt.Errorf("%w: inclination %v outside [-90, 90]", ErrInvalidInput, m.InclinationDeg)
	}
	if !finite(m.IntensityMicroT) || m.IntensityMicroT <= 0 {
		return fmt.Errorf("%w: intensity %v must be positive", ErrInvalidInput, m.IntensityMicroT)
	}
	if m.AltitudeM != nil && !finite(*m.AltitudeM) {
		return fmt.Errorf("%w: altitude %v", ErrInvalidInput, *m.AltitudeM)
	}
	return nil
}

// conditions returns the refraction conditions, sanitized.
func (m Measurement) conditions() atmosphere.Conditions {
	if m.Conditions == nil {
		return atmosphere.StandardConditions()
	}
	return m.Conditions.Sanitize()
}

// mslAltitude returns the observer's height above mean sea level and whether
// it is known at all.
func (m Measurement) mslAltitude() (float64, bool) {
	if m.AltitudeM != nil {
		return *m.AltitudeM, true
	}
	if m.Conditions != nil && atmosphere.ValidPressure(m.Conditions.PressurePa) {
		return atmosphere.AltitudeFromStandardPressure(m.Conditions.PressurePa), true
	}
	return 0, false
}

// DistanceTo returns the ellipsoidal (Vincenty) distance to o in meters.
func (c Coordinate) DistanceTo(o Coordinate) (float64, error) {
	return geodesy.Distance(geodesy.Ellipsoid, geodesy.Degrees, c.Lat, c.Lon, o.Lat, o.Lon)
}

func (c Coordinate) normalized() Coordinate {
	return Coordinate{Lat: c.Lat, Lon: transform.NormalizeLongitude(c.Lon)}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

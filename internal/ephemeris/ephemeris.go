// Package ephemeris computes where the Sun or the Moon appears in the sky
// for an observer on the ground.
//
// Longitudes are East-positive throughout the package API. The NOAA solar
// formulas work West-positive internally; the conversion happens in
// noaaLongitude and nowhere else.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/transform"
)

var (
	// ErrInvalidInput is returned for out-of-range coordinates, unknown
	// targets and zero times.
	ErrInvalidInput = errors.New("invalid input")
	// ErrComputationFailure is returned when an ephemeris cannot produce a
	// finite position.
	ErrComputationFailure = errors.New("ephemeris computation failed")
)

// Horizontal is a position in the observer's horizon frame, in degrees.
// Azimuth is measured from true north, clockwise, in [0, 360).
type Horizontal struct {
	AzimuthDeg   float64 `json:"azimuth_deg"`
	ElevationDeg float64 `json:"elevation_deg"`
}

// Observation is a body's direction with the azimuth referred to both true
// and magnetic north.
type Observation struct {
	AzimuthTrueDeg     float64 `json:"azimuth_true_deg"`
	AzimuthMagneticDeg float64 `json:"azimuth_magnetic_deg"`
	ElevationDeg       float64 `json:"elevation_deg"`
}

// ApparentToMagneticAzimuth converts a true azimuth to a magnetic one given
// the local magnetic declination (East-positive).
func ApparentToMagneticAzimuth(trueAzDeg, declinationDeg float64) float64 {
	return transform.Normalize360(trueAzDeg - declinationDeg)
}

// NewObservation refers h to magnetic north.
func NewObservation(h Horizontal, declinationDeg float64) Observation {
	return Observation{
		AzimuthTrueDeg:     h.AzimuthDeg,
		AzimuthMagneticDeg: ApparentToMagneticAzimuth(h.AzimuthDeg, declinationDeg),
		ElevationDeg:       h.ElevationDeg,
	}
}

// Snapshot holds every time-dependent term of one target at one instant, so
// that many observer positions can be evaluated without recomputing them.
// A Snapshot is immutable and safe for concurrent use.
type Snapshot struct {
	target     Target
	time       time.Time
	conditions atmosphere.Conditions

	sun  solarTerms
	moon lunarTerms
}

// At prepares target's position at t under standard atmospheric conditions.
func At(target Target, t time.Time) (Snapshot, error) {
	if t.IsZero() {
		return Snapshot{}, fmt.Errorf("%w: zero time", ErrInvalidInput)
	}

	s := Snapshot{
		target:     target,
		time:       t.UTC(),
		conditions: atmosphere.StandardConditions(),
	}
	ms := t.UnixMilli()

	switch target {
	case Sun:
		s.sun = newSolarTerms(ms)
	case Moon:
		moon, err := newLunarTerms(ms)
		if err != nil {
			return Snapshot{}, err
		}
		s.moon = moon
	default:
		return Snapshot{}, fmt.Errorf("%w: unknown target %v", ErrInvalidInput, target)
	}
	return s, nil
}

// WithConditions returns a copy of s that refracts the Moon for c. The
// Sun always uses the NOAA refraction model.
func (s Snapshot) WithConditions(c atmosphere.Conditions) Snapshot {
	s.conditions = c.Sanitize()
	return s
}

// Target returns the snapshot's body.
func (s Snapshot) Target() Target { return s.target }

// Time returns the snapshot's instant in UTC.
func (s Snapshot) Time() time.Time { return s.time }

// Horizontal returns the apparent azimuth and elevation at a geodetic
// position. Longitude is East-positive and is normalized.
func (s Snapshot) Horizontal(latDeg, lonDeg float64) (Horizontal, error) {
	if err := validateCoordinate(latDeg, lonDeg); err != nil {
		return Horizontal{}, err
	}
	lonDeg = transform.NormalizeLongitude(lonDeg)

	var (
		h   Horizontal
		err error
	)
	switch s.target {
	case Sun:
		h = s.sun.horizontal(latDeg, lonDeg)
	case Moon:
		h, err = s.moon.horizontal(latDeg, lonDeg, s.conditions)
	default:
		err = fmt.Errorf("%w: unknown target %v", ErrInvalidInput, s.target)
	}
	if err != nil {
		return Horizontal{}, err
	}
	if !h.isFinite() {
		return Horizontal{}, fmt.Errorf("%w: %v at (%.4f, %.4f)", ErrComputationFailure, s.target, latDeg, lonDeg)
	}
	return h, nil
}

// Position is At followed by Horizontal.
func Position(target Target, t time.Time, latDeg, lonDeg float64) (Horizontal, error) {
	s, err := At(target, t)
	if err != nil {
		return Horizontal{}, err
	}
	return s.Horizontal(latDeg, lonDeg)
}

func validateCoordinate(latDeg, lonDeg float64) error {
	if !transform.ValidLatitude(latDeg) || !transform.ValidLongitude(lonDeg) {
		return fmt.Errorf("%w: coordinate (%v, %v)", ErrInvalidInput, latDeg, lonDeg)
	}
	return nil
}

// isFinite reports whether h can be scored.
func (h Horizontal) isFinite() bool {
	return !math.IsNaN(h.AzimuthDeg) && !math.IsInf(h.AzimuthDeg, 0) &&
		!math.IsNaN(h.ElevationDeg) && !math.IsInf(h.ElevationDeg, 0)
}

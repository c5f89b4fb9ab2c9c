package locator

import (
	"fmt"
	"math"
	"time"

	"github.com/star/skyfix/internal/ephemeris"
	"github.com/star/skyfix/internal/geomag"
	"github.com/star/skyfix/internal/transform"
)

// Prediction is what a perfect sensor would read at a candidate position.
type Prediction struct {
	AzimuthTrueDeg     float64 `json:"azimuth_true_deg"`
	AzimuthMagneticDeg float64 `json:"azimuth_magnetic_deg"`
	ElevationDeg       float64 `json:"elevation_deg"`
	DeclinationDeg     float64 `json:"declination_deg"`
	InclinationDeg     float64 `json:"inclination_deg"`
	IntensityMicroT    float64 `json:"intensity_micro_t"`
}

// predictor maps a candidate position to the readings expected there.
type predictor interface {
	predict(c Coordinate) (Prediction, error)
}

// forwardModel holds everything about a measurement that does not depend on
// the candidate position. It is read-only once built and shared by workers.
type forwardModel struct {
	sky   ephemeris.Snapshot
	field *geomag.Model

	mslM   float64
	hasAlt bool
}

func newForwardModel(m Measurement) (*forwardModel, error) {
	sky, err := ephemeris.At(m.Target, m.Time)
	if err != nil {
		return nil, fmt.Errorf("prepare %v ephemeris: %w", m.Target, err)
	}
	msl, ok := m.mslAltitude()
	return &forwardModel{
		sky:    sky.WithConditions(m.conditions()),
		field:  geomag.NewModelAt(m.Time),
		mslM:   msl,
		hasAlt: ok,
	}, nil
}

// predict runs the ephemeris and the field model at c.
func (f *forwardModel) predict(c Coordinate) (Prediction, error) {
	h, err := f.sky.Horizontal(c.Lat, c.Lon)
	if err != nil {
		return Prediction{}, err
	}

	// Without a known altitude the observer sits on the ellipsoid.
	alt := 0.0
	if f.hasAlt {
		// EllipsoidalHeight falls back to the MSL height on lookup failure.
		alt, _ = geomag.EllipsoidalHeight(c.Lat, c.Lon, f.mslM)
	}

	field, err := f.field.Evaluate(c.Lat, c.Lon, alt)
	if err != nil {
		return Prediction{}, err
	}

	obs := ephemeris.NewObservation(h, field.DeclinationDeg)
	return Prediction{
		AzimuthTrueDeg:     obs.AzimuthTrueDeg,
		AzimuthMagneticDeg: obs.AzimuthMagneticDeg,
		ElevationDeg:       obs.ElevationDeg,
		DeclinationDeg:     field.DeclinationDeg,
		InclinationDeg:     field.InclinationDeg,
		IntensityMicroT:    field.TotalStrength / 1000,
	}, nil
}

// score is the weighted sum of squared normalized residuals between m and p.
func score(m Measurement, p Prediction, w Weights, r Ranges) float64 {
	sq := func(measured, predicted, rng float64) float64 {
		d := (measured - predicted) / rng
		return d * d
	}
	az := transform.AngleDiff(m.AzimuthMagneticDeg, p.AzimuthMagneticDeg) / r.AzimuthDeg

	e := w.Azimuth*az*az +
		w.Elevation*sq(m.ElevationDeg, p.ElevationDeg, r.ElevationDeg) +
		w.Inclination*sq(m.InclinationDeg, p.InclinationDeg, r.InclinationDeg) +
		w.Intensity*sq(m.IntensityMicroT, p.IntensityMicroT, r.IntensityMicroT)
	if math.IsNaN(e) {
		return math.Inf(1)
	}
	return e
}

// Synthesize returns the measurement a perfect sensor would have produced
// at c. Altitude and conditions are left unset.
func Synthesize(target ephemeris.Target, t time.Time, c Coordinate) (Measurement, error) {
	m := Measurement{Time: t, Target: target}
	f, err := newForwardModel(m)
	if err != nil {
		return Measurement{}, err
	}
	p, err := f.predict(c.normalized())
	if err != nil {
		return Measurement{}, err
	}
	m.AzimuthMagneticDeg = p.AzimuthMagneticDeg
	m.ElevationDeg = p.ElevationDeg
	m.InclinationDeg = p.InclinationDeg
	m.IntensityMicroT = p.IntensityMicroT
	return m, nil
}

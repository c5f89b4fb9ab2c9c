// Package capture reads and writes the JSON record kept for every sighting:
// the sensor readings the estimator needs plus the camera settings and,
// once computed, the estimate itself.
package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/ephemeris"
	"github.com/star/skyfix/internal/locator"
)

// ErrInvalidRecord is returned for records that cannot describe a sighting.
var ErrInvalidRecord = errors.New("invalid capture record")

// Orientation is the device attitude at capture, in degrees. Azimuth is
// referred to magnetic north.
type Orientation struct {
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	Roll      float64 `json:"roll"`
}

// MagneticField is the magnetometer reading.
type MagneticField struct {
	IntensityMicroT float64 `json:"magnetic_intensity"`
	InclinationDeg  float64 `json:"magnetic_inclination"`
}

// Camera holds the capture settings. They are kept for offline analysis only.
type Camera struct {
	Exposure    int `json:"exposure"`
	ZoomPercent int `json:"zoompercent"`
}

// Outcome is an estimate stored alongside the record.
type Outcome struct {
	Coordinate  locator.Coordinate `json:"coordinate"`
	Error       float64            `json:"error"`
	Partial     bool               `json:"partial"`
	CoverageGap bool               `json:"coverage_gap"`
	// DistanceM is the distance to Reference, when the record has one.
	DistanceM   *float64  `json:"distance_m,omitempty"`
	EstimatedAt time.Time `json:"estimated_at"`
}

// Record is one capture.
type Record struct {
	ID        string           `json:"id"`
	Timestamp *int64           `json:"timestamp"` // ms since the Unix epoch
	DateTime  string           `json:"datetime"`
	Target    ephemeris.Target `json:"target"`

	Orientation   Orientation   `json:"orientation"`
	MagneticField MagneticField `json:"magnetic_field"`

	PressurePa   *float64 `json:"pressure,omitempty"`
	TemperatureC *float64 `json:"temperature,omitempty"`
	AltitudeM    *float64 `json:"altitude_m,omitempty"`

	Camera *Camera `json:"camera,omitempty"`

	// Reference is the known position of the observer, if any.
	Reference *locator.Coordinate `json:"reference,omitempty"`
	Result    *Outcome            `json:"result,omitempty"`
}

// New returns a record for a sighting at t with a fresh ID.
func New(t time.Time, target ephemeris.Target, o Orientation, f MagneticField) Record {
	ms := t.UnixMilli()
	return Record{
		ID:            uuid.NewString(),
		Timestamp:     &ms,
		DateTime:      t.UTC().Format(time.RFC3339),
		Target:        target,
		Orientation:   o,
		MagneticField: f,
	}
}

// FromMeasurement builds a record from an estimator input.
func FromMeasurement(m locator.Measurement) Record {
	r := New(m.Time, m.Target,
		Orientation{Azimuth: m.AzimuthMagneticDeg, Elevation: m.ElevationDeg},
		MagneticField{IntensityMicroT: m.IntensityMicroT, InclinationDeg: m.InclinationDeg},
	)
	r.AltitudeM = m.AltitudeM
	if m.Conditions != nil {
		p, t := m.Conditions.PressurePa, m.Conditions.TemperatureC
		r.PressurePa, r.TemperatureC = &p, &t
	}
	return r
}

// Millis returns the capture timestamp, or 0 when the record has none.
func (r Record) Millis() int64 {
	if r.Timestamp == nil {
		return 0
	}
	return *r.Timestamp
}

// Time returns the capture instant in UTC.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Millis()).UTC()
}

// Validate checks the fields the estimator depends on.
func (r Record) Validate() error {
	if r.Timestamp == nil {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidRecord)
	}
	if r.ID != "" {
		if _, err := uuid.Parse(r.ID); err != nil {
			return fmt.Errorf("%w: id %q: %v", ErrInvalidRecord, r.ID, err)
		}
	}
	if !r.Target.Valid() {
		return fmt.Errorf("%w: missing target", ErrInvalidRecord)
	}
	if r.Reference != nil {
		if math.Abs(r.Reference.Lat) > 90 || math.IsNaN(r.Reference.Lat) || math.IsNaN(r.Reference.Lon) {
			return fmt.Errorf("%w: reference %+v", ErrInvalidRecord, *r.Reference)
		}
	}
	if err := r.Measurement().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// Measurement converts the record into estimator input. Missing pressure or
// temperature fall back to the reference atmosphere.
func (r Record) Measurement() locator.Measurement {
	m := locator.Measurement{
		Time:               r.Time(),
		Target:             r.Target,
		AzimuthMagneticDeg: r.Orientation.Azimuth,
		ElevationDeg:       r.Orientation.Elevation,
		InclinationDeg:     r.MagneticField.InclinationDeg,
		IntensityMicroT:    r.MagneticField.IntensityMicroT,
		AltitudeM:          r.AltitudeM,
	}
	if r.PressurePa != nil || r.TemperatureC != nil {
		c := atmosphere.StandardConditions()
		if r.PressurePa != nil {
			c.PressurePa = *r.PressurePa
		}
		if r.TemperatureC != nil {
			c.TemperatureC = *r.TemperatureC
		}
		m.Conditions = &c
	}
	return m
}

// WithResult returns a copy of r carrying res.
func (r Record) WithResult(res locator.Result, at time.Time) Record {
	out := &Outcome{
		Coordinate:  res.Coordinate,
		Error:       res.Error,
		Partial:     res.Partial,
		CoverageGap: res.CoverageGap,
		EstimatedAt: at.UTC(),
	}
	if r.Reference != nil {
		if d, err := res.Coordinate.DistanceTo(*r.Reference); err == nil {
			out.DistanceM = &d
		}
	}
	r.Result = out
	return r
}

// Decode reads and validates one record. A record without an ID gets one.
func Decode(rd io.Reader) (Record, error) {
	var r Record
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&r); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.DateTime == "" {
		r.DateTime = r.Time().Format(time.RFC3339)
	}
	return r, nil
}

// Encode writes r as indented JSON.
func Encode(w io.Writer, r Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

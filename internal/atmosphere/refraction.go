// Package atmosphere models the lower atmosphere as seen by a ground
// observer: refraction of celestial elevations, barometric altitude and
// plausibility limits for pressure and temperature readings.
package atmosphere

import "math"

// Reference conditions of the refraction formulas.
const (
	ReferencePressurePa    = 101000.0
	ReferenceTemperatureC  = 10.0
	arcminutesPerDegree    = 60.0
	referenceTemperatureK  = ReferenceTemperatureC - AbsoluteZeroC
	horizonElevationCutoff = 0.0
)

// Conditions are the local atmospheric conditions used to scale refraction.
type Conditions struct {
	PressurePa   float64
	TemperatureC float64
}

// StandardConditions returns the reference conditions (1010 hPa, 10 °C), for
// which the pressure and temperature scale factors are exactly 1.
func StandardConditions() Conditions {
	return Conditions{PressurePa: ReferencePressurePa, TemperatureC: ReferenceTemperatureC}
}

// Sanitize replaces implausible readings with the reference values.
func (c Conditions) Sanitize() Conditions {
	if !ValidPressure(c.PressurePa) {
		c.PressurePa = ReferencePressurePa
	}
	if !ValidTemperature(c.TemperatureC) {
		c.TemperatureC = ReferenceTemperatureC
	}
	return c
}

// scale is the combined correction P/P0 * T/T0, both factors 1 at the
// reference conditions.
func (c Conditions) scale() float64 {
	return (c.PressurePa / ReferencePressurePa) * (ToKelvin(c.TemperatureC) / referenceTemperatureK)
}

type refractionCoeffs struct {
	a, b, c float64
}

var (
	bennett     = refractionCoeffs{a: 1.00, b: 7.31, c: 4.40}
	saemundsson = refractionCoeffs{a: 1.02, b: 10.3, c: 5.11}
)

func (k refractionCoeffs) degrees(elevDeg float64) float64 {
	angle := elevDeg + k.b/(elevDeg+k.c)
	return k.a / math.Tan(angle*math.Pi/180) / arcminutesPerDegree
}

// Refraction returns the refraction angle in degrees for an apparent
// (observed) elevation, using Bennett's formula scaled to the given
// conditions. Below the horizon it returns 0.
func Refraction(apparentElevDeg float64, c Conditions) float64 {
	if apparentElevDeg < horizonElevationCutoff {
		return 0
	}
	return bennett.degrees(apparentElevDeg) * c.scale()
}

// RefractionTrue returns the refraction angle in degrees for a true
// (geometric) elevation, using Saemundsson's formula. Below the horizon it
// returns 0.
func RefractionTrue(trueElevDeg float64, c Conditions) float64 {
	if trueElevDeg < horizonElevationCutoff {
		return 0
	}
	return saemundsson.degrees(trueElevDeg) * c.scale()
}

// ApparentElevation lifts a geometric elevation by the refraction angle.
func ApparentElevation(trueElevDeg float64, c Conditions) float64 {
	return trueElevDeg + RefractionTrue(trueElevDeg, c)
}

// TrueElevation lowers an observed elevation by the refraction angle.
func TrueElevation(apparentElevDeg float64, c Conditions) float64 {
	return apparentElevDeg - Refraction(apparentElevDeg, c)
}

package atmosphere

import "math"

// International Standard Atmosphere constants for the troposphere.
const (
	SeaLevelPressurePa = 101325.0  // p0 [Pa]
	seaLevelTempK      = 288.15    // T0 [K]
	gravity            = 9.80665   // g [m/s²]
	molarMassAir       = 0.0289644 // M [kg/mol]
	gasConstant        = 8.31447   // R [J/(mol·K)]
	lapseRate          = 0.0065    // L [K/m]

	minPressurePa = 87000.0
	maxPressurePa = 108600.0
)

var (
	gmOverRL = (gravity * molarMassAir) / (gasConstant * lapseRate)
	rlOverGM = (gasConstant * lapseRate) / (gravity * molarMassAir)
)

// AltitudeFromPressure returns the height in meters above the level where
// the pressure is seaLevelPa, using the barometric formula
//
//	h = T0/L · (1 − (p/p0)^(RL/gM))
//
// p and seaLevelPa must share a unit.
func AltitudeFromPressure(p, seaLevelPa float64) float64 {
	return seaLevelTempK / lapseRate * (1.0 - math.Pow(p/seaLevelPa, rlOverGM))
}

// AltitudeFromStandardPressure is AltitudeFromPressure against 101325 Pa.
func AltitudeFromStandardPressure(p float64) float64 {
	return AltitudeFromPressure(p, SeaLevelPressurePa)
}

// PressureFromAltitude is the inverse of AltitudeFromStandardPressure.
func PressureFromAltitude(altM float64) float64 {
	return SeaLevelPressurePa * math.Pow(1-lapseRate/seaLevelTempK*altM, gmOverRL)
}

// ValidPressure reports whether p (Pa) lies within the range of pressures
// ever observed at the surface.
func ValidPressure(p float64) bool {
	return minPressurePa <= p && p <= maxPressurePa
}

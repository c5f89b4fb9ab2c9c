package atmosphere

// AbsoluteZeroC is 0 K expressed in degrees Celsius.
const AbsoluteZeroC = -273.15

// Surface temperature records: Vostok Station and the Libyan desert.
const (
	minTemperatureC = -88.0
	maxTemperatureC = 58.0
)

// ToKelvin converts Celsius to Kelvin.
func ToKelvin(c float64) float64 { return c - AbsoluteZeroC }

// ToCelsius converts Kelvin to Celsius.
func ToCelsius(k float64) float64 { return k + AbsoluteZeroC }

// ValidTemperature reports whether c (°C) lies within recorded surface extremes.
func ValidTemperature(c float64) bool {
	return minTemperatureC <= c && c <= maxTemperatureC
}

package atmosphere

import (
	"math"
	"testing"
)

func TestRefractionBennett(t *testing.T) {
	std := StandardConditions()

	tests := []struct {
		name      string
		elevation float64
		wantArcm  float64
		tolArcm   float64
	}{
		// Bennett gives ~34.5' at the horizon and ~1' at 45°.
		{"horizon", 0, 34.5, 0.2},
		{"10 degrees", 10, 5.39, 0.02},
		{"45 degrees", 45, 0.99, 0.02},
		{"zenith", 90, 0, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Refraction(tt.elevation, std) * 60
			if math.Abs(got-tt.wantArcm) > tt.tolArcm {
				t.Errorf("Refraction(%v) = %.3f', want %.3f'", tt.elevation, got, tt.wantArcm)
			}
		})
	}
}

func TestRefractionBelowHorizon(t *testing.T) {
	for _, e := range []float64{-0.1, -5, -90} {
		if got := Refraction(e, StandardConditions()); got != 0 {
			t.Errorf("Refraction(%v) = %v, want 0", e, got)
		}
		if got := RefractionTrue(e, StandardConditions()); got != 0 {
			t.Errorf("RefractionTrue(%v) = %v, want 0", e, got)
		}
	}
}

func TestRefractionScaling(t *testing.T) {
	base := Refraction(20, StandardConditions())

	high := Refraction(20, Conditions{PressurePa: 2 * ReferencePressurePa, TemperatureC: ReferenceTemperatureC})
	if math.Abs(high/base-2) > 1e-12 {
		t.Errorf("doubling pressure scaled refraction by %v, want 2", high/base)
	}

	tests := []struct {
		name string
		c    Conditions
		want float64
	}{
		{"warm", Conditions{PressurePa: ReferencePressurePa, TemperatureC: 40}, (40 + 273.15) / 283.15},
		{"freezing", Conditions{PressurePa: ReferencePressurePa, TemperatureC: -10}, (-10 + 273.15) / 283.15},
		{"low and warm", Conditions{PressurePa: 90900, TemperatureC: 40}, 0.9 * (40 + 273.15) / 283.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Refraction(20, tt.c) / base
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("scale = %.9f, want %.9f", got, tt.want)
			}
			if r := RefractionTrue(20, tt.c) / RefractionTrue(20, StandardConditions()); math.Abs(r-tt.want) > 1e-12 {
				t.Errorf("true-elevation scale = %.9f, want %.9f", r, tt.want)
			}
		})
	}
}

// Saemundsson's formula is built to invert Bennett's to within ~0.1'.
func TestSaemundssonInvertsBennett(t *testing.T) {
	std := StandardConditions()
	for _, trueEl := range []float64{1, 5, 15, 30, 60} {
		apparent := ApparentElevation(trueEl, std)
		back := TrueElevation(apparent, std)
		if d := math.Abs(back-trueEl) * 60; d > 0.15 {
			t.Errorf("true %v -> apparent %v -> true %v (diff %.3f')", trueEl, apparent, back, d)
		}
	}
}

func TestAltitudeFromPressure(t *testing.T) {
	tests := []struct {
		name     string
		pressure float64
		want     float64
		tol      float64
	}{
		{"sea level", SeaLevelPressurePa, 0, 1e-9},
		{"~1000 m", 89874.6, 1000, 2},
		{"~500 m", 95461.3, 500, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AltitudeFromStandardPressure(tt.pressure)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("AltitudeFromStandardPressure(%v) = %.2f m, want %.2f", tt.pressure, got, tt.want)
			}
		})
	}
}

func TestPressureAltitudeRoundTrip(t *testing.T) {
	for _, alt := range []float64{-200, 0, 150, 1200, 3500} {
		p := PressureFromAltitude(alt)
		back := AltitudeFromStandardPressure(p)
		if math.Abs(back-alt) > 1e-6 {
			t.Errorf("altitude %v -> %v Pa -> %v", alt, p, back)
		}
	}
}

func TestValidity(t *testing.T) {
	pressures := map[float64]bool{86999: false, 87000: true, 101325: true, 108600: true, 108601: false}
	for p, want := range pressures {
		if got := ValidPressure(p); got != want {
			t.Errorf("ValidPressure(%v) = %v, want %v", p, got, want)
		}
	}

	temps := map[float64]bool{-89: false, -88: true, 20: true, 58: true, 58.5: false}
	for c, want := range temps {
		if got := ValidTemperature(c); got != want {
			t.Errorf("ValidTemperature(%v) = %v, want %v", c, got, want)
		}
	}

	c := Conditions{PressurePa: 20, TemperatureC: 300}.Sanitize()
	if c != StandardConditions() {
		t.Errorf("Sanitize() = %+v, want standard conditions", c)
	}
}

func TestTemperatureConversion(t *testing.T) {
	if got := ToKelvin(0); got != 273.15 {
		t.Errorf("ToKelvin(0) = %v", got)
	}
	if got := ToCelsius(ToKelvin(21.5)); math.Abs(got-21.5) > 1e-12 {
		t.Errorf("round trip = %v", got)
	}
}

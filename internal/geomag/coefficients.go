// Package geomag evaluates the World Magnetic Model: a degree-12 spherical
// harmonic expansion of the main geomagnetic field with linear secular
// variation over a five-year epoch.
package geomag

import (
	"time"
)

// ValidityYears is the span, starting at Epoch, over which a coefficient set
// is published as valid.
const ValidityYears = 5

// Coefficients is one WMM release. G and H are the Gauss coefficients in nT
// indexed [n][m]; DG and DH are their secular variation in nT/year. Tables
// are read-only after package initialization.
type Coefficients struct {
	Epoch int
	G     [][]float64
	H     [][]float64
	DG    [][]float64
	DH    [][]float64
}

// MaxDegree returns the highest spherical harmonic degree in the table.
func (c *Coefficients) MaxDegree() int {
	return len(c.G) - 1
}

// Covers reports whether year lies in the published validity window.
func (c *Coefficients) Covers(year int) bool {
	return year >= c.Epoch && year < c.Epoch+ValidityYears
}

// epochs is ordered oldest first.
var epochs = []*Coefficients{wmm2005, wmm2010, wmm2015, wmm2020}

// Epochs returns the base years of the bundled models, oldest first.
func Epochs() []int {
	out := make([]int, len(epochs))
	for i, c := range epochs {
		out[i] = c.Epoch
	}
	return out
}

// SelectCoefficients returns the newest model whose epoch is not after year.
// Years before the oldest epoch get the oldest model.
func SelectCoefficients(year int) *Coefficients {
	selected := epochs[0]
	for _, c := range epochs {
		if c.Epoch <= year {
			selected = c
		}
	}
	return selected
}

// ForTime is SelectCoefficients for the UTC calendar year of t.
func ForTime(t time.Time) *Coefficients {
	return SelectCoefficients(t.UTC().Year())
}

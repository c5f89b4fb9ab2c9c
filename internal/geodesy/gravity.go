package geodesy

import (
	"fmt"
	"math"

	"github.com/star/skyfix/internal/transform"
)

// WGS84 normal gravity (Somigliana closed form, IGF 1984).
const (
	EquatorialGravity = 9.7803267714 // m/s²
	PolarGravity      = 9.8321863685 // m/s²
	somiglianaK       = 0.00193185138639
	firstEccSq        = 0.00669437999013

	// The published constants are rounded to 1e-10.
	gravitySlack = 1e-9

	// Below this sin²φ the inverse is rounding noise; it maps to 0°.
	equatorSin2 = 1e-12
)

// NormalGravity returns the normal gravity in m/s² on the ellipsoid at the
// given geodetic latitude in degrees.
func NormalGravity(latDeg float64) float64 {
	s := math.Sin(latDeg * transform.Rad)
	s2 := s * s
	return EquatorialGravity * (1 + somiglianaK*s2) / math.Sqrt(1-firstEccSq*s2)
}

// LatitudeFromGravity inverts NormalGravity. The result is the absolute
// latitude in degrees; gravity is symmetric about the equator.
func LatitudeFromGravity(g float64) (float64, error) {
	if math.IsNaN(g) || g < EquatorialGravity-gravitySlack || g > PolarGravity+gravitySlack {
		return math.NaN(), fmt.Errorf("%w: gravity %.7f m/s² outside [%.7f, %.7f]",
			ErrInvalidInput, g, EquatorialGravity, PolarGravity)
	}

	r := g / EquatorialGravity
	G := r * r
	k := somiglianaK
	p := 2*k + firstEccSq*G
	disc := p*p - 4*k*k*(1-G)
	// Root of k²s⁴ + p·s² + (1-G) = 0, in the cancellation-free form.
	s2 := 2 * (G - 1) / (p + math.Sqrt(disc))
	if s2 < equatorSin2 {
		return 0, nil
	}
	s2 = math.Min(1, s2)
	return math.Asin(math.Sqrt(s2)) * transform.Deg, nil
}

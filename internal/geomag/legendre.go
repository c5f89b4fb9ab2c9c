package geomag

import (
	"math"
	"sync"
)

// legendre holds the Gauss-normalized associated Legendre functions P[n][m]
// and their derivatives with respect to theta, for theta = π/2 − geocentric
// latitude.
type legendre struct {
	P  [][]float64
	dP [][]float64
}

func newLegendre(thetaRad float64, maxN int) legendre {
	cosT, sinT := math.Cos(thetaRad), math.Sin(thetaRad)

	P := make([][]float64, maxN+1)
	dP := make([][]float64, maxN+1)
	P[0] = []float64{1}
	dP[0] = []float64{0}

	for n := 1; n <= maxN; n++ {
		P[n] = make([]float64, n+1)
		dP[n] = make([]float64, n+1)
		for m := 0; m <= n; m++ {
			switch {
			case n == m:
				P[n][m] = sinT * P[n-1][m-1]
				dP[n][m] = cosT*P[n-1][m-1] + sinT*dP[n-1][m-1]
			case n == 1 || m == n-1:
				P[n][m] = cosT * P[n-1][m]
				dP[n][m] = -sinT*P[n-1][m] + cosT*dP[n-1][m]
			default:
				k := float64((n-1)*(n-1)-m*m) / float64((2*n-1)*(2*n-3))
				P[n][m] = cosT*P[n-1][m] - k*P[n-2][m]
				dP[n][m] = -sinT*P[n-1][m] + cosT*dP[n-1][m] - k*dP[n-2][m]
			}
		}
	}
	return legendre{P: P, dP: dP}
}

// schmidtCache memoizes Schmidt quasi-normalization factors per max degree.
// Entries are never mutated once stored.
var schmidtCache sync.Map // int -> [][]float64

func schmidtFactors(maxN int) [][]float64 {
	if v, ok := schmidtCache.Load(maxN); ok {
		return v.([][]float64)
	}

	s := make([][]float64, maxN+1)
	s[0] = []float64{1}
	for n := 1; n <= maxN; n++ {
		s[n] = make([]float64, n+1)
		s[n][0] = s[n-1][0] * float64(2*n-1) / float64(n)
		for m := 1; m <= n; m++ {
			twice := 1.0
			if m == 1 {
				twice = 2
			}
			s[n][m] = s[n][m-1] * math.Sqrt(float64(n-m+1)*twice/float64(n+m))
		}
	}

	v, _ := schmidtCache.LoadOrStore(maxN, s)
	return v.([][]float64)
}

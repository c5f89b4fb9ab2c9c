package geodesy

import (
	"errors"
	"math"
	"testing"

	"github.com/star/skyfix/internal/transform"
)

var allModels = []Model{Plane, Sphere, Haversine, Ellipsoid}

func TestVincentyKnownDistances(t *testing.T) {
	dms := func(d, m, s float64) float64 { return d + m/60 + s/3600 }

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tol                    float64
	}{
		// Vincenty's 1975 worked example.
		{"Flinders Peak to Buninyong",
			-dms(37, 57, 3.72030), dms(144, 25, 29.52440),
			-dms(37, 39, 10.15610), dms(143, 55, 35.38390),
			54972.271, 0.01},
		{"Budapest to Paris", 47.4979, 19.0402, 48.8566, 2.3522, 1247674.418, 0.01},
		{"equator to pole", 0, 0, 90, 0, 10001965.729, 0.01},
		{"across the antimeridian", 10, 170, 10, -170, 2192447.565, 0.01},
		{"exactly antipodal on the equator", 0, 0, 0, 180, math.Pi * transform.WGS84A, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(Ellipsoid, Degrees, tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if err != nil {
				t.Fatalf("Distance() error = %v", err)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance() = %.4f m, want %.4f m", got, tt.want)
			}
		})
	}
}

func TestNearlyAntipodalIsFinite(t *testing.T) {
	pairs := [][4]float64{
		{0.5, 10, -0.5, -169.7},
		{0, 0, 0.3, 179.8},
		{-0.2, -45, 0.2, 134.9},
	}
	for _, p := range pairs {
		got, err := Distance(Ellipsoid, Degrees, p[0], p[1], p[2], p[3])
		if err != nil {
			t.Errorf("Distance(%v) error = %v", p, err)
			continue
		}
		if math.IsNaN(got) || got < 19.9e6 || got > 20.1e6 {
			t.Errorf("Distance(%v) = %v, want ~20000 km", p, got)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	points := [][2]float64{
		{47.4979, 19.0402},
		{-33.8688, 151.2093},
		{64.1466, -21.9426},
		{0, 0},
		{-89, 45},
	}

	for _, m := range allModels {
		t.Run(m.String(), func(t *testing.T) {
			for i, a := range points {
				for j, b := range points {
					if i == j {
						continue
					}
					ab, err1 := Distance(m, Degrees, a[0], a[1], b[0], b[1])
					ba, err2 := Distance(m, Degrees, b[0], b[1], a[0], a[1])
					if err1 != nil || err2 != nil {
						t.Fatalf("Distance errors: %v, %v", err1, err2)
					}
					if math.Abs(ab-ba) > 1e-3 {
						t.Errorf("%v -> %v = %.6f, reverse = %.6f", a, b, ab, ba)
					}
				}
			}
		})
	}
}

func TestDistanceToSelfIsZero(t *testing.T) {
	for _, m := range allModels {
		for _, p := range [][2]float64{{0, 0}, {47.5, 19}, {-60, -120}, {90, 0}} {
			got, err := Distance(m, Degrees, p[0], p[1], p[0], p[1])
			if err != nil {
				t.Fatalf("%v: Distance error = %v", m, err)
			}
			// acos near 1 turns one ulp into ~0.1 m for the sphere model.
			if math.Abs(got) > 0.5 {
				t.Errorf("%v: Distance(%v, %v) = %v, want 0", m, p, p, got)
			}
		}
	}
}

func TestSphericalModels(t *testing.T) {
	quarter := EarthRadius * math.Pi / 2

	for _, m := range []Model{Plane, Sphere, Haversine} {
		got, err := Distance(m, Degrees, 0, 0, 90, 0)
		if err != nil {
			t.Fatalf("%v: %v", m, err)
		}
		if math.Abs(got-quarter) > 1e-6 {
			t.Errorf("%v: equator to pole = %.6f, want %.6f", m, got, quarter)
		}
	}

	// The plane model wraps the longitude difference.
	got, _ := Distance(Plane, Degrees, 0, 179.5, 0, -179.5)
	if want := EarthRadius * transform.Rad; math.Abs(got-want) > 1e-6 {
		t.Errorf("plane across antimeridian = %v, want %v", got, want)
	}

	// Sphere and haversine agree for well-separated points.
	s, _ := Distance(Sphere, Degrees, 47.4979, 19.0402, 48.8566, 2.3522)
	h, _ := Distance(Haversine, Degrees, 47.4979, 19.0402, 48.8566, 2.3522)
	if math.Abs(s-h) > 1e-3 {
		t.Errorf("sphere %v and haversine %v disagree", s, h)
	}
}

func TestRadiansMatchDegrees(t *testing.T) {
	for _, m := range allModels {
		d, err1 := Distance(m, Degrees, 47.4979, 19.0402, -33.8688, 151.2093)
		r, err2 := Distance(m, Radians, 47.4979*transform.Rad, 19.0402*transform.Rad,
			-33.8688*transform.Rad, 151.2093*transform.Rad)
		if err1 != nil || err2 != nil {
			t.Fatalf("%v: %v, %v", m, err1, err2)
		}
		if math.Abs(d-r) > 1e-6 {
			t.Errorf("%v: degrees %v != radians %v", m, d, r)
		}
	}
}

func TestDistanceInvalidInput(t *testing.T) {
	if _, err := Distance(Model(9), Degrees, 0, 0, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown model: err = %v", err)
	}
	if _, err := Distance(Sphere, AngleUnit(5), 0, 0, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown unit: err = %v", err)
	}
	got, err := Distance(Haversine, Degrees, math.NaN(), 0, 1, 1)
	if !errors.Is(err, ErrInvalidInput) || !math.IsNaN(got) {
		t.Errorf("NaN input: got %v, err = %v", got, err)
	}

	outOfRange := []struct {
		name                   string
		unit                   AngleUnit
		lat1, lon1, lat2, lon2 float64
	}{
		{"lat1 beyond north pole", Degrees, 120, 0, 0, 0},
		{"lat2 beyond south pole", Degrees, 0, 0, -90.5, 10},
		{"radians beyond pole", Radians, 0, 0, 1.6, 0},
	}
	for _, tt := range outOfRange {
		for _, m := range []Model{Plane, Sphere, Haversine, Ellipsoid} {
			t.Run(tt.name+"/"+m.String(), func(t *testing.T) {
				got, err := Distance(m, tt.unit, tt.lat1, tt.lon1, tt.lat2, tt.lon2)
				if !errors.Is(err, ErrInvalidInput) || !math.IsNaN(got) {
					t.Errorf("Distance() = %v, %v; want NaN, ErrInvalidInput", got, err)
				}
			})
		}
	}

	// The poles themselves are valid.
	if _, err := Distance(Ellipsoid, Degrees, 90, 0, -90, 0); err != nil {
		t.Errorf("pole to pole: err = %v", err)
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in      string
		want    Model
		wantErr bool
	}{
		{"plane", Plane, false},
		{"Sphere", Sphere, false},
		{" haversine ", Haversine, false},
		{"ellipsoid", Ellipsoid, false},
		{"vincenty", Ellipsoid, false},
		{"flat", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseModel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseModel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseModel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalGravity(t *testing.T) {
	if got := NormalGravity(0); math.Abs(got-EquatorialGravity) > 1e-12 {
		t.Errorf("NormalGravity(0) = %v", got)
	}
	if got := NormalGravity(90); math.Abs(got-PolarGravity) > 1e-9 {
		t.Errorf("NormalGravity(90) = %v, want %v", got, PolarGravity)
	}
	if got := NormalGravity(45); math.Abs(got-9.8061992) > 1e-6 {
		t.Errorf("NormalGravity(45) = %v", got)
	}
	if NormalGravity(-30) != NormalGravity(30) {
		t.Error("NormalGravity not symmetric about the equator")
	}
}

func TestLatitudeFromGravity(t *testing.T) {
	for _, lat := range []float64{0, 12.5, 30, 47.5, 75, 89.9} {
		got, err := LatitudeFromGravity(NormalGravity(lat))
		if err != nil {
			t.Fatalf("LatitudeFromGravity(%v) error = %v", lat, err)
		}
		if math.Abs(got-lat) > 1e-6 {
			t.Errorf("latitude %v -> %v", lat, got)
		}
	}

	// Gravity a rounding step above the equatorial value is still the equator.
	for _, g := range []float64{EquatorialGravity, math.Nextafter(EquatorialGravity, 10), 9.7803267714} {
		got, err := LatitudeFromGravity(g)
		if err != nil || got != 0 {
			t.Errorf("LatitudeFromGravity(%v) = %v, %v; want 0", g, got, err)
		}
	}

	for _, g := range []float64{9.7, 9.9, math.NaN()} {
		if _, err := LatitudeFromGravity(g); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("LatitudeFromGravity(%v) err = %v, want ErrInvalidInput", g, err)
		}
	}
}

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/star/skyfix/internal/capture"
	"github.com/star/skyfix/internal/ephemeris"
	"github.com/star/skyfix/internal/geodesy"
	"github.com/star/skyfix/internal/geomag"
	"github.com/star/skyfix/internal/httputil"
	"github.com/star/skyfix/internal/locator"
	"github.com/star/skyfix/internal/passes"
	"github.com/star/skyfix/internal/stream"
)

// maxCaptureBytes bounds the body of POST /api/v1/estimate.
const maxCaptureBytes = 1 << 20

const (
	defaultCaptureLimit = 20
	maxCaptureLimit     = 500
)

// statusFor maps package errors onto HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch {
	case errors.Is(err, capture.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, locator.ErrNoEstimate),
		errors.Is(err, ephemeris.ErrComputationFailure),
		errors.Is(err, geodesy.ErrNoConvergence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, httputil.ErrBadParam),
		errors.Is(err, capture.ErrInvalidRecord),
		errors.Is(err, locator.ErrInvalidInput),
		errors.Is(err, ephemeris.ErrInvalidInput),
		errors.Is(err, geomag.ErrInvalidInput),
		errors.Is(err, geodesy.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, err error) {
	httputil.WriteError(w, statusFor(err), err.Error())
}

type estimateResponse struct {
	ID        string         `json:"id"`
	Result    locator.Result `json:"result"`
	DistanceM *float64       `json:"distance_m,omitempty"`
	Archived  bool           `json:"archived"`
}

// estimateHandler runs the estimator on a posted capture record.
// POST /api/v1/estimate
func estimateHandler(logger *slog.Logger, est *locator.Estimator, archive *capture.Archive, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := capture.Decode(http.MaxBytesReader(w, r.Body, maxCaptureBytes))
		if err != nil {
			writeErr(w, err)
			return
		}

		res, err := est.Estimate(r.Context(), rec.Measurement())
		if err != nil {
			logger.Info("estimate failed", "component", "api", "capture_id", rec.ID, "error", err)
			writeErr(w, err)
			return
		}

		rec = rec.WithResult(res, now())
		resp := estimateResponse{ID: rec.ID, Result: res, DistanceM: rec.Result.DistanceM}
		if archive != nil {
			if err := archive.Write(rec); err != nil {
				logger.Warn("capture archive write failed", "component", "api", "capture_id", rec.ID, "error", err)
			} else {
				resp.Archived = true
			}
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

type ephemerisResponse struct {
	Target        ephemeris.Target      `json:"target"`
	Time          time.Time             `json:"time"`
	Lat           float64               `json:"lat"`
	Lon           float64               `json:"lon"`
	Observation   ephemeris.Observation `json:"observation"`
	Declination   float64               `json:"declination_deg"`
	MagneticEpoch int                   `json:"magnetic_epoch"`
	CoverageGap   bool                  `json:"coverage_gap"`
}

// ephemerisHandler returns where the Sun or Moon appears from a point,
// referred to both true and magnetic north.
// GET /api/v1/ephemeris?target=moon&time=...&lat=..&lon=..[&pressure=..&temperature=..]
func ephemerisHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := ephemeris.ParseTarget(r.URL.Query().Get("target"))
		if err != nil {
			writeErr(w, err)
			return
		}
		t, err := httputil.Time(r, "time", now())
		if err != nil {
			writeErr(w, err)
			return
		}
		lat, lon, err := latLon(r, "lat", "lon")
		if err != nil {
			writeErr(w, err)
			return
		}

		snap, err := ephemeris.At(target, t)
		if err != nil {
			writeErr(w, err)
			return
		}
		if c, err := stream.ConditionsFromQuery(r); err != nil {
			writeErr(w, err)
			return
		} else if c != nil {
			snap = snap.WithConditions(*c)
		}

		h, err := snap.Horizontal(lat, lon)
		if err != nil {
			writeErr(w, err)
			return
		}
		field, err := geomag.EvaluateAt(t, lat, lon, 0)
		if err != nil {
			writeErr(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, ephemerisResponse{
			Target:        target,
			Time:          t.UTC(),
			Lat:           lat,
			Lon:           lon,
			Observation:   ephemeris.NewObservation(h, field.DeclinationDeg),
			Declination:   field.DeclinationDeg,
			MagneticEpoch: field.Epoch,
			CoverageGap:   field.CoverageGap,
		})
	}
}

type fieldResponse struct {
	Time               time.Time `json:"time"`
	Lat                float64   `json:"lat"`
	Lon                float64   `json:"lon"`
	AltitudeM          float64   `json:"altitude_m"`
	NorthNT            float64   `json:"x_nt"`
	EastNT             float64   `json:"y_nt"`
	DownNT             float64   `json:"z_nt"`
	HorizontalNT       float64   `json:"horizontal_nt"`
	TotalNT            float64   `json:"total_nt"`
	DeclinationDeg     float64   `json:"declination_deg"`
	InclinationDeg     float64   `json:"inclination_deg"`
	MagneticEpoch      int       `json:"magnetic_epoch"`
	CoverageGap        bool      `json:"coverage_gap"`
	EllipsoidAltitudeM float64   `json:"ellipsoid_altitude_m"`
}

// fieldHandler evaluates the geomagnetic model. alt is meters above mean
// sea level and is converted to ellipsoidal height.
// GET /api/v1/field?time=...&lat=..&lon=..&alt=..
func fieldHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := httputil.Time(r, "time", now())
		if err != nil {
			writeErr(w, err)
			return
		}
		lat, lon, err := latLon(r, "lat", "lon")
		if err != nil {
			writeErr(w, err)
			return
		}
		alt, err := httputil.FloatOr(r, "alt", 0)
		if err != nil {
			writeErr(w, err)
			return
		}

		hae, _ := geomag.EllipsoidalHeight(lat, lon, alt)
		s, err := geomag.EvaluateAt(t, lat, lon, hae)
		if err != nil {
			writeErr(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, fieldResponse{
			Time:               t.UTC(),
			Lat:                lat,
			Lon:                lon,
			AltitudeM:          alt,
			NorthNT:            s.X,
			EastNT:             s.Y,
			DownNT:             s.Z,
			HorizontalNT:       s.HorizontalStrength,
			TotalNT:            s.TotalStrength,
			DeclinationDeg:     s.DeclinationDeg,
			InclinationDeg:     s.InclinationDeg,
			MagneticEpoch:      s.Epoch,
			CoverageGap:        s.CoverageGap,
			EllipsoidAltitudeM: hae,
		})
	}
}

// distanceHandler returns the surface distance between two points.
// GET /api/v1/distance?model=ellipsoid&lat1=..&lon1=..&lat2=..&lon2=..
func distanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		model := geodesy.Ellipsoid
		if v := r.URL.Query().Get("model"); v != "" {
			m, err := geodesy.ParseModel(v)
			if err != nil {
				writeErr(w, err)
				return
			}
			model = m
		}
		lat1, lon1, err := latLon(r, "lat1", "lon1")
		if err != nil {
			writeErr(w, err)
			return
		}
		lat2, lon2, err := latLon(r, "lat2", "lon2")
		if err != nil {
			writeErr(w, err)
			return
		}

		d, err := geodesy.Distance(model, geodesy.Degrees, lat1, lon1, lat2, lon2)
		if err != nil {
			writeErr(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"model":  model.String(),
			"meters": d,
		})
	}
}

// gravityHandler converts between latitude and normal gravity. Exactly one
// of lat or g must be given.
// GET /api/v1/gravity?lat=..  or  ?g=..
func gravityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, err := httputil.OptionalFloat(r, "lat")
		if err != nil {
			writeErr(w, err)
			return
		}
		g, err := httputil.OptionalFloat(r, "g")
		if err != nil {
			writeErr(w, err)
			return
		}

		switch {
		case lat != nil && g == nil:
			if *lat < -90 || *lat > 90 {
				httputil.WriteError(w, http.StatusBadRequest, "lat must be within [-90, 90]")
				return
			}
			httputil.WriteJSON(w, http.StatusOK, map[string]float64{
				"lat_deg":     *lat,
				"gravity_ms2": geodesy.NormalGravity(*lat),
			})
		case g != nil && lat == nil:
			l, err := geodesy.LatitudeFromGravity(*g)
			if err != nil {
				writeErr(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, map[string]float64{
				"lat_deg":     l,
				"gravity_ms2": *g,
			})
		default:
			httputil.WriteError(w, http.StatusBadRequest, "give exactly one of lat or g")
		}
	}
}

// moonPhaseHandler returns the lunar phase at time.
// GET /api/v1/moon/phase?time=...
func moonPhaseHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := httputil.Time(r, "time", now())
		if err != nil {
			writeErr(w, err)
			return
		}
		p, err := ephemeris.MoonPhase(t)
		if err != nil {
			writeErr(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, p)
	}
}

type modelInfo struct {
	Epoch      int `json:"epoch"`
	ValidUntil int `json:"valid_until"`
}

type modelsResponse struct {
	Models      []modelInfo `json:"models"`
	Selected    int         `json:"selected"`
	Time        time.Time   `json:"time"`
	CoverageGap bool        `json:"coverage_gap"`
}

// modelsHandler lists the bundled WMM releases and the one used at time.
// GET /api/v1/models/geomagnetic?time=...
func modelsHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := httputil.Time(r, "time", now())
		if err != nil {
			writeErr(w, err)
			return
		}
		var models []modelInfo
		for _, e := range geomag.Epochs() {
			models = append(models, modelInfo{Epoch: e, ValidUntil: e + geomag.ValidityYears})
		}
		m := geomag.NewModelAt(t)
		httputil.WriteJSON(w, http.StatusOK, modelsResponse{
			Models:      models,
			Selected:    m.Epoch(),
			Time:        t.UTC(),
			CoverageGap: m.CoverageGap(),
		})
	}
}

const (
	maxPassHours = 24 * 14
	maxPasses    = 50
)

// passesHandler predicts when the Sun and Moon are high enough to shoot.
// GET /api/v1/passes?lat=..&lon=..[&targets=sun,moon&start=..&hours=48&min_el=10&max=10]
func passesHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, lon, err := latLon(r, "lat", "lon")
		if err != nil {
			writeErr(w, err)
			return
		}
		if lat < -90 || lat > 90 {
			httputil.WriteError(w, http.StatusBadRequest, "lat must be within [-90, 90]")
			return
		}
		start, err := httputil.Time(r, "start", now())
		if err != nil {
			writeErr(w, err)
			return
		}
		hours, err := httputil.FloatOr(r, "hours", 48)
		if err != nil || hours <= 0 || hours > maxPassHours {
			httputil.WriteError(w, http.StatusBadRequest, "invalid hours parameter, must be in (0, 336]")
			return
		}
		minEl, err := httputil.FloatOr(r, "min_el", 10)
		if err != nil || minEl < -5 || minEl >= 90 {
			httputil.WriteError(w, http.StatusBadRequest, "invalid min_el parameter, must be in [-5, 90)")
			return
		}
		limit := 10
		if v := r.URL.Query().Get("max"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxPasses {
				httputil.WriteError(w, http.StatusBadRequest, "invalid max parameter, must be 1-50")
				return
			}
			limit = n
		}

		targets := []ephemeris.Target{ephemeris.Sun, ephemeris.Moon}
		if v := r.URL.Query().Get("targets"); v != "" {
			targets = targets[:0]
			for _, name := range strings.Split(v, ",") {
				tg, err := ephemeris.ParseTarget(name)
				if err != nil {
					writeErr(w, err)
					return
				}
				targets = append(targets, tg)
			}
		}
		c, err := stream.ConditionsFromQuery(r)
		if err != nil {
			writeErr(w, err)
			return
		}

		results := passes.Predict(r.Context(), passes.Request{
			Lat:          lat,
			Lon:          lon,
			Targets:      targets,
			Start:        start,
			HorizonHours: hours,
			MinElevation: minEl,
			MaxPasses:    limit,
			Conditions:   c,
		})
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"start":   start.UTC(),
			"hours":   hours,
			"min_el":  minEl,
			"targets": results,
		})
	}
}

// capturesListHandler lists archived captures, newest first.
// GET /api/v1/captures?limit=20
func capturesListHandler(archive *capture.Archive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if archive == nil {
			httputil.WriteError(w, http.StatusServiceUnavailable, "capture archive disabled")
			return
		}

		limit := defaultCaptureLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxCaptureLimit {
				httputil.WriteError(w, http.StatusBadRequest, "invalid limit parameter, must be 1-500")
				return
			}
			limit = n
		}

		records, err := archive.List(limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		if records == nil {
			records = []capture.Record{}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"count":    len(records),
			"captures": records,
		})
	}
}

// captureGetHandler returns one archived capture.
// GET /api/v1/captures/{id}
func captureGetHandler(archive *capture.Archive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if archive == nil {
			httputil.WriteError(w, http.StatusServiceUnavailable, "capture archive disabled")
			return
		}
		rec, err := archive.Load(r.PathValue("id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, rec)
	}
}

func latLon(r *http.Request, latName, lonName string) (float64, float64, error) {
	lat, err := httputil.Float(r, latName)
	if err != nil {
		return 0, 0, err
	}
	lon, err := httputil.Float(r, lonName)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

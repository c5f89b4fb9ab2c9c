package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/capture"
	"github.com/star/skyfix/internal/ephemeris"
	"github.com/star/skyfix/internal/geodesy"
	"github.com/star/skyfix/internal/geomag"
	"github.com/star/skyfix/internal/locator"
	"github.com/star/skyfix/internal/passes"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skyfixctl",
		Short: "Estimate an observer's position from a Sun or Moon sighting",
		Long: `skyfixctl estimates where a photo of the Sun or Moon was taken from the
bearing and elevation of the body and the magnetometer reading of the device.
It also exposes the ephemeris, geomagnetic, geodesic and gravity models the
estimator is built on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newEstimateCmd(),
		newSynthCmd(),
		newPositionCmd(),
		newFieldCmd(),
		newDistanceCmd(),
		newGravityCmd(),
		newPhaseCmd(),
		newPassesCmd(),
	)
	return root
}

// parseTime accepts RFC 3339 or epoch milliseconds; "" means now.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: want RFC 3339 or epoch milliseconds", s)
	}
	return t.UTC(), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newEstimateCmd() *cobra.Command {
	var (
		workers int
		asJSON  bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "estimate <capture.json>",
		Short: "Estimate the observer position for a capture record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rec, err := capture.Decode(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			cfg := locator.DefaultConfig()
			cfg.Workers = workers
			est, err := locator.New(cfg, logger)
			if err != nil {
				return err
			}

			res, err := est.Estimate(cmd.Context(), rec.Measurement())
			if err != nil {
				return err
			}
			rec = rec.WithResult(res, time.Now())

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, rec)
			}

			fmt.Fprintf(out, "capture   %s (%v at %s)\n", rec.ID, rec.Target, rec.Time().Format(time.RFC3339))
			if verbose {
				for _, l := range res.Levels {
					fmt.Fprintf(out, "level %d   step %-7g best (%.4f, %.4f) error %.3g\n",
						l.Level, l.StepDeg, l.Best.Lat, l.Best.Lon, l.Error)
				}
			}
			fmt.Fprintf(out, "position  %.4f, %.4f\n", res.Coordinate.Lat, res.Coordinate.Lon)
			fmt.Fprintf(out, "error     %.3g (%d evaluations, %d failed)\n", res.Error, res.Evaluations, res.Failures)
			fmt.Fprintf(out, "model     WMM%d", res.MagneticEpoch)
			if res.CoverageGap {
				fmt.Fprint(out, " (outside validity window)")
			}
			fmt.Fprintln(out)
			if res.Partial {
				fmt.Fprintln(out, "partial   search stopped early")
			}
			if d := rec.Result.DistanceM; d != nil {
				fmt.Fprintf(out, "reference %.3f km away\n", *d/1000)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "scoring goroutines")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the capture record with its result as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show every resolution level and debug logs")
	return cmd
}

func newSynthCmd() *cobra.Command {
	var (
		target   string
		when     string
		lat, lon float64
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write the capture record an ideal device would produce at a known point",
		RunE: func(cmd *cobra.Command, args []string) error {
			tg, err := ephemeris.ParseTarget(target)
			if err != nil {
				return err
			}
			t, err := parseTime(when)
			if err != nil {
				return err
			}
			ref := locator.Coordinate{Lat: lat, Lon: lon}
			m, err := locator.Synthesize(tg, t, ref)
			if err != nil {
				return err
			}
			rec := capture.FromMeasurement(m)
			rec.Reference = &ref
			return capture.Encode(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringVar(&target, "target", "sun", "sun or moon")
	cmd.Flags().StringVar(&when, "time", "", "RFC 3339 or epoch ms (default now)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees, East positive")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lon")
	return cmd
}

func newPositionCmd() *cobra.Command {
	var (
		target                string
		when                  string
		lat, lon              float64
		pressure, temperature float64
	)
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Print where the Sun or Moon appears from a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			tg, err := ephemeris.ParseTarget(target)
			if err != nil {
				return err
			}
			t, err := parseTime(when)
			if err != nil {
				return err
			}
			snap, err := ephemeris.At(tg, t)
			if err != nil {
				return err
			}
			snap = snap.WithConditions(atmosphere.Conditions{PressurePa: pressure, TemperatureC: temperature})
			h, err := snap.Horizontal(lat, lon)
			if err != nil {
				return err
			}
			field, err := geomag.EvaluateAt(t, lat, lon, 0)
			if err != nil {
				return err
			}
			obs := ephemeris.NewObservation(h, field.DeclinationDeg)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%v at %s from (%.4f, %.4f)\n", tg, t.Format(time.RFC3339), lat, lon)
			fmt.Fprintf(out, "azimuth   %.4f° true, %.4f° magnetic\n", obs.AzimuthTrueDeg, obs.AzimuthMagneticDeg)
			fmt.Fprintf(out, "elevation %.4f°\n", obs.ElevationDeg)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "sun", "sun or moon")
	cmd.Flags().StringVar(&when, "time", "", "RFC 3339 or epoch ms (default now)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees, East positive")
	cmd.Flags().Float64Var(&pressure, "pressure", atmosphere.ReferencePressurePa, "pressure in Pa (Moon refraction)")
	cmd.Flags().Float64Var(&temperature, "temperature", atmosphere.ReferenceTemperatureC, "temperature in °C (Moon refraction)")
	return cmd
}

func newFieldCmd() *cobra.Command {
	var (
		when          string
		lat, lon, alt float64
	)
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Evaluate the World Magnetic Model",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTime(when)
			if err != nil {
				return err
			}
			hae, _ := geomag.EllipsoidalHeight(lat, lon, alt)
			s, err := geomag.EvaluateAt(t, lat, lon, hae)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model       WMM%d", s.Epoch)
			if s.CoverageGap {
				fmt.Fprint(out, " (outside validity window)")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "X Y Z       %.1f %.1f %.1f nT\n", s.X, s.Y, s.Z)
			fmt.Fprintf(out, "intensity   %.1f nT (%.3f µT)\n", s.TotalStrength, s.TotalStrength/1000)
			fmt.Fprintf(out, "declination %.4f°\n", s.DeclinationDeg)
			fmt.Fprintf(out, "inclination %.4f°\n", s.InclinationDeg)
			return nil
		},
	}
	cmd.Flags().StringVar(&when, "time", "", "RFC 3339 or epoch ms (default now)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees, East positive")
	cmd.Flags().Float64Var(&alt, "alt", 0, "altitude above mean sea level in meters")
	return cmd
}

func newDistanceCmd() *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "distance <lat1> <lon1> <lat2> <lon2>",
		Short: "Distance in meters between two points",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := geodesy.ParseModel(model)
			if err != nil {
				return err
			}
			var v [4]float64
			for i, a := range args {
				if v[i], err = strconv.ParseFloat(a, 64); err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
			}
			d, err := geodesy.Distance(m, geodesy.Degrees, v[0], v[1], v[2], v[3])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f m (%v)\n", d, m)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "ellipsoid", "plane, sphere, haversine or ellipsoid")
	return cmd
}

func newGravityCmd() *cobra.Command {
	var lat, g float64
	cmd := &cobra.Command{
		Use:   "gravity",
		Short: "Convert between latitude and normal gravity",
		RunE: func(cmd *cobra.Command, args []string) error {
			latSet, gSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("g")
			out := cmd.OutOrStdout()
			switch {
			case latSet && !gSet:
				if math.Abs(lat) > 90 {
					return fmt.Errorf("latitude %v outside [-90, 90]", lat)
				}
				fmt.Fprintf(out, "%.7f m/s²\n", geodesy.NormalGravity(lat))
			case gSet && !latSet:
				l, err := geodesy.LatitudeFromGravity(g)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "±%.6f°\n", l)
			default:
				return fmt.Errorf("give exactly one of --lat or --g")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&g, "g", 0, "normal gravity in m/s²")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	var when string
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Print the lunar phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTime(when)
			if err != nil {
				return err
			}
			p, err := ephemeris.MoonPhase(t)
			if err != nil {
				return err
			}
			trend := "waning"
			if p.Waxing {
				trend = "waxing"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f%% illuminated, %s (elongation %.2f°)\n",
				p.Illuminated*100, trend, p.ElongationDeg)
			return nil
		},
	}
	cmd.Flags().StringVar(&when, "time", "", "RFC 3339 or epoch ms (default now)")
	return cmd
}

func newPassesCmd() *cobra.Command {
	var (
		targets   []string
		start     string
		lat, lon  float64
		hours     float64
		minEl     float64
		maxPasses int
	)
	cmd := &cobra.Command{
		Use:   "passes",
		Short: "List when the Sun and Moon are high enough to photograph",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTime(start)
			if err != nil {
				return err
			}
			req := passes.Request{
				Lat:          lat,
				Lon:          lon,
				Start:        t,
				HorizonHours: hours,
				MinElevation: minEl,
				MaxPasses:    maxPasses,
			}
			for _, name := range targets {
				tg, err := ephemeris.ParseTarget(name)
				if err != nil {
					return err
				}
				req.Targets = append(req.Targets, tg)
			}

			out := cmd.OutOrStdout()
			for _, res := range passes.Predict(cmd.Context(), req) {
				if res.Error != "" {
					return fmt.Errorf("%v: %s", res.Target, res.Error)
				}
				fmt.Fprintf(out, "%v: %d passes above %g°\n", res.Target, len(res.Passes), minEl)
				for _, p := range res.Passes {
					fmt.Fprintf(out, "  %s - %s  max %.1f° at %s (az %.1f°)\n",
						p.StartTime.Format(time.RFC3339), p.EndTime.Format("15:04Z"),
						p.MaxElevation, p.MaxElevationTime.Format("15:04Z"), p.AzimuthAtMax)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&targets, "targets", []string{"sun", "moon"}, "bodies to predict")
	cmd.Flags().StringVar(&start, "start", "", "RFC 3339 or epoch ms (default now)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees, East positive")
	cmd.Flags().Float64Var(&hours, "hours", 48, "prediction window in hours")
	cmd.Flags().Float64Var(&minEl, "min-el", 10, "minimum apparent elevation in degrees")
	cmd.Flags().IntVar(&maxPasses, "max", 10, "maximum passes per body")
	return cmd
}

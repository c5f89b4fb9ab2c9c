package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/star/skyfix/internal/capture"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSynthThenEstimate(t *testing.T) {
	out, err := run(t, "synth", "--target", "sun", "--time", "2016-06-21T08:00:00Z", "--lat", "47.498", "--lon", "19.041")
	if err != nil {
		t.Fatalf("synth: %v", err)
	}
	path := filepath.Join(t.TempDir(), "capture.json")
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		t.Fatal(err)
	}

	out, err = run(t, "estimate", "--json", "--workers", "2", path)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	rec, err := capture.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("estimate output is not a capture record: %v", err)
	}
	if rec.Result == nil {
		t.Fatal("estimate output has no result")
	}
	c := rec.Result.Coordinate
	if math.Abs(c.Lat-47.498) > 0.5 || math.Abs(c.Lon-19.041) > 0.5 {
		t.Errorf("estimate = %+v", c)
	}
	if rec.Result.DistanceM == nil || *rec.Result.DistanceM > 40000 {
		t.Errorf("distance = %v", rec.Result.DistanceM)
	}

	out, err = run(t, "estimate", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"position  4", "model     WMM2015", "reference"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "estimate", "--verbose", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"level 1   step 20 ", "level 4   step 0.3125"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "level 0") {
		t.Errorf("verbose output counts levels from 0:\n%s", out)
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"distance", []string{"distance", "0", "0", "0", "1", "--model", "sphere"}, "(sphere)", false},
		{"distance bad arg", []string{"distance", "0", "x", "0", "1"}, "", true},
		{"distance arg count", []string{"distance", "0", "0"}, "", true},
		{"gravity at equator", []string{"gravity", "--lat", "0"}, "9.7803268 m/s²", false},
		{"gravity inverse", []string{"gravity", "--g", "9.7803267714"}, "±0.000000°", false},
		{"gravity needs one flag", []string{"gravity"}, "", true},
		{"position", []string{"position", "--target", "moon", "--time", "1466460000000", "--lat", "47.498", "--lon", "19.041"}, "moon at 2016-06-20T22:00:00Z", false},
		{"position bad target", []string{"position", "--target", "mars"}, "", true},
		{"field", []string{"field", "--time", "2016-06-21T08:00:00Z", "--lat", "47.498", "--lon", "19.041"}, "model       WMM2015", false},
		{"phase", []string{"phase", "--time", "2016-06-20T22:00:00Z"}, "waning", false},
		{"passes", []string{"passes", "--targets", "sun", "--start", "2016-06-21T00:00:00Z", "--lat", "47.498", "--lon", "19.041", "--hours", "24", "--min-el", "0"}, "sun: 1 passes above 0°", false},
		{"passes bad target", []string{"passes", "--targets", "mars"}, "", true},
		{"bad time", []string{"phase", "--time", "tomorrow"}, "", true},
		{"estimate missing file", []string{"estimate", "/nonexistent/capture.json"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

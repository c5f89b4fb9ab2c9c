package httputil

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

// ErrBadParam is wrapped by every query parsing error.
var ErrBadParam = errors.New("bad query parameter")

// Float parses a required finite float parameter.
func Float(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrBadParam, name)
	}
	return parseFloat(name, v)
}

// FloatOr parses an optional float parameter, returning def when absent.
func FloatOr(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return parseFloat(name, v)
}

// OptionalFloat parses an optional float parameter; nil means absent.
func OptionalFloat(r *http.Request, name string) (*float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := parseFloat(name, v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseFloat(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s=%q is not a finite number", ErrBadParam, name, v)
	}
	return f, nil
}

// Time parses a time parameter given as RFC 3339 or as integer milliseconds
// since the Unix epoch. An absent parameter yields now.
func Time(r *http.Request, name string, now time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return now.UTC(), nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q is neither RFC 3339 nor epoch milliseconds", ErrBadParam, name, v)
	}
	return t.UTC(), nil
}

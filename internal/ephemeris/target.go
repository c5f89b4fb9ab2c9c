package ephemeris

import (
	"fmt"
	"strings"
)

// Target is the celestial body being observed.
type Target int

const (
	Sun Target = iota + 1
	Moon
)

func (t Target) String() string {
	switch t {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Valid reports whether t names a supported body.
func (t Target) Valid() bool {
	return t == Sun || t == Moon
}

// ParseTarget parses "sun" or "moon", case-insensitively.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun":
		return Sun, nil
	case "moon":
		return Moon, nil
	}
	return 0, fmt.Errorf("%w: unknown target %q", ErrInvalidInput, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(b []byte) error {
	v, err := ParseTarget(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

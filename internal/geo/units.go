package geo

import (
	"fmt"
	"strings"
)

// Unit names a linear unit. Only the first letter matters:
// f(eet), m(eters), y(ards), s(moots).
type Unit string

const (
	Feet   Unit = "feet"
	Meters Unit = "meters"
	Yards  Unit = "yards"
	Smoots Unit = "smoots"
)

// UnitToMeters returns how many meters one unit of name is.
func UnitToMeters(name string) (float64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownUnit)
	}
	switch strings.ToLower(name)[0] {
	case 'f':
		return 0.3048, nil
	case 'm':
		return 1.0, nil
	case 'y':
		return 0.9144, nil
	case 's':
		return 1.7018, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}

// Meters is UnitToMeters for u.
func (u Unit) Meters() (float64, error) {
	return UnitToMeters(string(u))
}

// Suffix returns the short label printed after scale numbers.
func (u Unit) Suffix() string {
	if u == "" {
		return ""
	}
	switch strings.ToLower(string(u))[0] {
	case 'f':
		return "ft"
	case 'm':
		return "m"
	case 'y':
		return "yd"
	case 's':
		return "smoots"
	}
	return string(u)
}

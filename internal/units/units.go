// Package units provides the closed set of length units used for scale
// calibration and display, with lossless conversion through a canonical
// angstrom basis.
package units

import (
	"fmt"
	"strings"
)

// Unit is a length unit from the closed set {Å, nm, μm, mm, cm}.
// The set is fixed; angstrom is the canonical internal basis because it
// is the finest unit listed, so repeated display-unit toggles never
// compound rounding error.
type Unit int

const (
	Angstrom Unit = iota
	Nanometer
	Micrometer
	Millimeter
	Centimeter
)

// perAngstrom holds how many angstroms one of each unit is.
var perAngstrom = [...]float64{
	Angstrom:   1,
	Nanometer:  1e1,
	Micrometer: 1e4,
	Millimeter: 1e7,
	Centimeter: 1e8,
}

// All lists every supported unit in ascending size order.
func All() []Unit {
	return []Unit{Angstrom, Nanometer, Micrometer, Millimeter, Centimeter}
}

func (u Unit) String() string {
	switch u {
	case Angstrom:
		return "Å"
	case Nanometer:
		return "nm"
	case Micrometer:
		return "μm"
	case Millimeter:
		return "mm"
	case Centimeter:
		return "cm"
	default:
		return "?"
	}
}

// Valid reports whether u is a member of the closed unit set.
func (u Unit) Valid() bool {
	return u >= Angstrom && u <= Centimeter
}

// ToAngstrom converts a value in unit u to angstroms.
func (u Unit) ToAngstrom(v float64) float64 {
	return v * perAngstrom[u]
}

// FromAngstrom converts a value in angstroms to unit u.
func (u Unit) FromAngstrom(v float64) float64 {
	return v / perAngstrom[u]
}

// Convert converts a value between two units.
func Convert(v float64, from, to Unit) float64 {
	if from == to {
		return v
	}
	return v * perAngstrom[from] / perAngstrom[to]
}

// Parse maps a unit symbol to a Unit. It accepts the ASCII fallbacks
// the scale-bar OCR tends to produce ("A" for Å, "um" for μm).
func Parse(s string) (Unit, error) {
	switch strings.TrimSpace(s) {
	case "Å", "A", "angstrom":
		return Angstrom, nil
	case "nm":
		return Nanometer, nil
	case "μm", "um", "µm":
		return Micrometer, nil
	case "mm":
		return Millimeter, nil
	case "cm":
		return Centimeter, nil
	}
	return Angstrom, fmt.Errorf("unknown unit %q", s)
}

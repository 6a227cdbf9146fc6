// Package scale provides pixel-to-physical-length calibration against a
// reference scale bar of known length.
package scale

import (
	"errors"
	"fmt"
	"math"

	"nano-measure/internal/units"
)

var (
	// ErrInvalidScale is returned when a calibration argument is
	// non-positive or non-finite.
	ErrInvalidScale = errors.New("invalid scale calibration")

	// ErrUncalibrated is returned when a conversion is requested before
	// a successful Set.
	ErrUncalibrated = errors.New("scale not calibrated")
)

// Calibration converts pixel distances to physical lengths. The factor
// is stored in angstroms per pixel; the display unit only affects
// presentation, never the stored basis.
type Calibration struct {
	pixelDistance  float64 // scale bar span in pixels
	physicalLength float64 // entered length, in calibration unit
	factor         float64 // angstroms per pixel
	unit           units.Unit
	displayUnit    units.Unit
	calibrated     bool
}

// New returns an uncalibrated Calibration displaying nanometers.
func New() *Calibration {
	return &Calibration{unit: units.Nanometer, displayUnit: units.Nanometer}
}

// Set records a calibration: pixelDistance pixels span physicalLength
// in the given unit. Both values must be positive and finite.
func (c *Calibration) Set(pixelDistance, physicalLength float64, unit units.Unit) error {
	if !positiveFinite(pixelDistance) {
		return fmt.Errorf("%w: pixel distance %v", ErrInvalidScale, pixelDistance)
	}
	if !positiveFinite(physicalLength) {
		return fmt.Errorf("%w: physical length %v", ErrInvalidScale, physicalLength)
	}
	if !unit.Valid() {
		return fmt.Errorf("%w: unit %v", ErrInvalidScale, unit)
	}

	c.pixelDistance = pixelDistance
	c.physicalLength = physicalLength
	c.unit = unit
	c.displayUnit = unit
	c.factor = unit.ToAngstrom(physicalLength) / pixelDistance
	c.calibrated = true
	return nil
}

// Calibrated reports whether Set has succeeded.
func (c *Calibration) Calibrated() bool {
	return c.calibrated
}

// Convert turns a pixel distance into a canonical physical length in
// angstroms.
func (c *Calibration) Convert(pixelValue float64) (float64, error) {
	if !c.calibrated {
		return 0, ErrUncalibrated
	}
	return pixelValue * c.factor, nil
}

// Factor returns the calibration factor in angstroms per pixel, or 0
// when uncalibrated.
func (c *Calibration) Factor() float64 {
	if !c.calibrated {
		return 0
	}
	return c.factor
}

// FactorInDisplay returns the calibration factor expressed in the
// current display unit per pixel.
func (c *Calibration) FactorInDisplay() float64 {
	return c.displayUnit.FromAngstrom(c.Factor())
}

// Unit returns the unit the calibration was entered in.
func (c *Calibration) Unit() units.Unit {
	return c.unit
}

// DisplayUnit returns the unit used for presentation and export.
func (c *Calibration) DisplayUnit() units.Unit {
	return c.displayUnit
}

// SetDisplayUnit changes the presentation unit. This is purely a
// display-side operation; stored canonical values are untouched.
func (c *Calibration) SetDisplayUnit(u units.Unit) {
	if u.Valid() {
		c.displayUnit = u
	}
}

// ToDisplay converts a canonical angstrom value into the display unit.
func (c *Calibration) ToDisplay(angstroms float64) float64 {
	return c.displayUnit.FromAngstrom(angstroms)
}

// FromDisplay converts a display-unit value back to angstroms.
func (c *Calibration) FromDisplay(v float64) float64 {
	return c.displayUnit.ToAngstrom(v)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

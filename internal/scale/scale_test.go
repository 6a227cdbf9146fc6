package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano-measure/internal/units"
)

func TestConvertBeforeCalibration(t *testing.T) {
	c := New()
	assert.False(t, c.Calibrated())
	_, err := c.Convert(10)
	assert.ErrorIs(t, err, ErrUncalibrated)
	assert.Equal(t, 0.0, c.Factor())
}

func TestSetAndConvert(t *testing.T) {
	c := New()
	// 100 px span 50 nm: factor is 5 angstroms per pixel.
	require.NoError(t, c.Set(100, 50, units.Nanometer))
	assert.True(t, c.Calibrated())
	assert.InDelta(t, 5.0, c.Factor(), 1e-12)

	got, err := c.Convert(20)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9) // 10 nm in angstroms
}

func TestSetRejectsBadInput(t *testing.T) {
	c := New()
	cases := []struct {
		px, length float64
	}{
		{0, 50},
		{-10, 50},
		{100, 0},
		{100, -1},
		{math.NaN(), 50},
		{100, math.Inf(1)},
	}
	for _, tc := range cases {
		err := c.Set(tc.px, tc.length, units.Nanometer)
		assert.ErrorIs(t, err, ErrInvalidScale, "px=%v length=%v", tc.px, tc.length)
	}
	assert.ErrorIs(t, c.Set(100, 50, units.Unit(9)), ErrInvalidScale)
	assert.False(t, c.Calibrated())
}

func TestFailedSetKeepsPreviousCalibration(t *testing.T) {
	c := New()
	require.NoError(t, c.Set(100, 50, units.Nanometer))
	assert.ErrorIs(t, c.Set(0, 50, units.Nanometer), ErrInvalidScale)
	assert.True(t, c.Calibrated())
	assert.InDelta(t, 5.0, c.Factor(), 1e-12)
}

func TestDisplayUnitRoundTrip(t *testing.T) {
	c := New()
	require.NoError(t, c.Set(100, 50, units.Nanometer))
	v, err := c.Convert(20) // 100 angstroms
	require.NoError(t, err)

	assert.InDelta(t, 10.0, c.ToDisplay(v), 1e-9) // nm display

	c.SetDisplayUnit(units.Micrometer)
	assert.InDelta(t, 0.01, c.ToDisplay(v), 1e-12)

	c.SetDisplayUnit(units.Nanometer)
	assert.InDelta(t, 10.0, c.ToDisplay(v), 1e-9)

	// Canonical value itself never changed.
	assert.InDelta(t, 100.0, v, 1e-9)
	assert.InDelta(t, v, c.FromDisplay(c.ToDisplay(v)), 1e-9)
}

func TestFactorInDisplay(t *testing.T) {
	c := New()
	require.NoError(t, c.Set(100, 50, units.Nanometer))
	assert.InDelta(t, 0.5, c.FactorInDisplay(), 1e-12)

	c.SetDisplayUnit(units.Angstrom)
	assert.InDelta(t, 5.0, c.FactorInDisplay(), 1e-12)
}

func TestSetResetsDisplayUnitToEntryUnit(t *testing.T) {
	c := New()
	require.NoError(t, c.Set(100, 50, units.Nanometer))
	c.SetDisplayUnit(units.Micrometer)
	require.NoError(t, c.Set(100, 2, units.Centimeter))
	assert.Equal(t, units.Centimeter, c.Unit())
	assert.Equal(t, units.Centimeter, c.DisplayUnit())
}

func TestInvalidDisplayUnitIgnored(t *testing.T) {
	c := New()
	c.SetDisplayUnit(units.Unit(42))
	assert.Equal(t, units.Nanometer, c.DisplayUnit())
}

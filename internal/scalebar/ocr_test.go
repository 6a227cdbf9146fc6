package scalebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano-measure/internal/units"
)

func TestParseLegend(t *testing.T) {
	cases := []struct {
		text  string
		value float64
		unit  units.Unit
	}{
		{"50 nm", 50, units.Nanometer},
		{"50nm", 50, units.Nanometer},
		{"1.5 μm", 1.5, units.Micrometer},
		{"1.5 um", 1.5, units.Micrometer},
		{"200 Å", 200, units.Angstrom},
		{"2 mm", 2, units.Millimeter},
		{"  100   nm  ", 100, units.Nanometer},
	}
	for _, tc := range cases {
		legend, err := ParseLegend(tc.text)
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.value, legend.Value, tc.text)
		assert.Equal(t, tc.unit, legend.Unit, tc.text)
	}
}

func TestParseLegendNoise(t *testing.T) {
	// OCR noise around the legend is tolerated.
	legend, err := ParseLegend(".. 50 nm .")
	require.NoError(t, err)
	assert.Equal(t, 50.0, legend.Value)
	assert.Equal(t, units.Nanometer, legend.Unit)
}

func TestParseLegendErrors(t *testing.T) {
	for _, text := range []string{"", "nm", "fifty nm", "50", "0 nm"} {
		_, err := ParseLegend(text)
		assert.ErrorIs(t, err, ErrNoLegend, text)
	}
}

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertIdentity(t *testing.T) {
	for _, u := range All() {
		assert.Equal(t, 3.25, Convert(3.25, u, u), u.String())
	}
}

func TestConvertKnownValues(t *testing.T) {
	assert.InDelta(t, 10.0, Convert(1, Nanometer, Angstrom), 1e-12)
	assert.InDelta(t, 1000.0, Convert(1, Micrometer, Nanometer), 1e-9)
	assert.InDelta(t, 10.0, Convert(1, Centimeter, Millimeter), 1e-9)
	assert.InDelta(t, 0.001, Convert(1, Nanometer, Micrometer), 1e-15)
}

func TestRoundTripThroughAngstrom(t *testing.T) {
	for _, from := range All() {
		for _, to := range All() {
			v := 123.456
			back := Convert(Convert(v, from, to), to, from)
			assert.InDelta(t, v, back, v*1e-9, "%s -> %s", from, to)
		}
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Å", Angstrom.String())
	assert.Equal(t, "nm", Nanometer.String())
	assert.Equal(t, "μm", Micrometer.String())
	assert.Equal(t, "mm", Millimeter.String())
	assert.Equal(t, "cm", Centimeter.String())
	assert.Equal(t, "?", Unit(99).String())
}

func TestValid(t *testing.T) {
	for _, u := range All() {
		assert.True(t, u.Valid())
	}
	assert.False(t, Unit(-1).Valid())
	assert.False(t, Unit(5).Valid())
}

func TestParse(t *testing.T) {
	cases := map[string]Unit{
		"Å":  Angstrom,
		"A":  Angstrom,
		"nm": Nanometer,
		"μm": Micrometer,
		"um": Micrometer,
		"µm": Micrometer,
		"mm": Millimeter,
		"cm": Centimeter,
	}
	for s, want := range cases {
		got, err := Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := Parse("km")
	assert.Error(t, err)
}

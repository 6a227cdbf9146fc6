package session

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano-measure/internal/distribution"
	"nano-measure/internal/measure"
	"nano-measure/internal/scale"
	"nano-measure/internal/units"
	"nano-measure/pkg/geometry"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	return New(zerolog.Nop())
}

func TestMeasureBeforeCalibration(t *testing.T) {
	s := newSession(t)
	_, err := s.AddMeasurement(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0))
	assert.ErrorIs(t, err, scale.ErrUncalibrated)
}

func TestCalibrateRecomputesAndNotifies(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Calibrate(100, 50, units.Nanometer))

	m, err := s.AddMeasurement(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(20, 0))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, s.Calibration.ToDisplay(m.Physical), 1e-9)

	var events int
	s.On(EventMeasurementsChanged, func(interface{}) { events++ })

	// Recalibrate: same pixels now span twice the length.
	require.NoError(t, s.Calibrate(100, 100, units.Nanometer))
	assert.InDelta(t, 20.0, s.Calibration.ToDisplay(m.Physical), 1e-9)
	assert.Equal(t, 1, events)
}

func TestUndoFlow(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Calibrate(10, 10, units.Nanometer))
	s.AddMeasurement(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(5, 0))
	require.NoError(t, s.Undo())
	assert.ErrorIs(t, s.Undo(), measure.ErrNothingToUndo)
}

func TestGroupMembershipFollowsMeasurement(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Calibrate(10, 10, units.Nanometer))

	g := s.CreateGroup(geometry.NewRect(0, 0, 100, 100), "")
	m, err := s.AddMeasurement(geometry.NewPoint2D(40, 50), geometry.NewPoint2D(60, 50))
	require.NoError(t, err)
	assert.Equal(t, g.ID, m.GroupID)

	require.NoError(t, s.DeleteGroup(g.ID))
	assert.Equal(t, measure.Ungrouped, m.GroupID)
}

func TestSetDisplayUnitKeepsCanonicalValues(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Calibrate(100, 50, units.Nanometer))
	m, err := s.AddMeasurement(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(20, 0))
	require.NoError(t, err)

	before := m.Physical
	s.SetDisplayUnit(units.Micrometer)
	s.SetDisplayUnit(units.Nanometer)
	assert.Equal(t, before, m.Physical)
	assert.InDelta(t, 10.0, s.Calibration.ToDisplay(m.Physical), 1e-9)
}

func TestFitDelegation(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Calibrate(10, 10, units.Nanometer))
	for _, px := range []float64{8, 9, 10, 11, 12} {
		_, err := s.AddMeasurement(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(px, 0))
		require.NoError(t, err)
	}
	res, err := s.Fit(0)
	require.NoError(t, err)
	assert.True(t, res.Converged)

	_, err = New(zerolog.Nop()).Fit(0)
	assert.ErrorIs(t, err, distribution.ErrInsufficientData)
}

func TestExportCSVWithoutFit(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Calibrate(100, 50, units.Nanometer))
	_, err := s.AddMeasurement(geometry.NewPoint2D(10, 10), geometry.NewPoint2D(30, 10))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, s.ExportCSV(&buf))
	out := buf.String()
	assert.Contains(t, out, "10.000000")
	assert.Contains(t, out, "N/A")
}

package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano-measure/internal/scale"
	"nano-measure/internal/units"
	"nano-measure/pkg/geometry"
)

func calibrated(t *testing.T) *scale.Calibration {
	t.Helper()
	cal := scale.New()
	// 100 px span = 50 nm, so 0.5 nm per pixel.
	require.NoError(t, cal.Set(100, 50, units.Nanometer))
	return cal
}

func TestAddRequiresCalibration(t *testing.T) {
	s := NewStore(scale.New())
	_, err := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0))
	assert.ErrorIs(t, err, scale.ErrUncalibrated)
	assert.Equal(t, 0, s.Len())
}

func TestAddComputesPhysical(t *testing.T) {
	s := NewStore(calibrated(t))
	m, err := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(20, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.InDelta(t, 20.0, m.PixelDistance, 1e-12)
	// 20 px * 0.5 nm/px = 10 nm = 100 angstroms.
	assert.InDelta(t, 100.0, m.Physical, 1e-9)
	assert.Equal(t, Ungrouped, m.GroupID)
}

func TestIDsAreSequentialAndNeverReused(t *testing.T) {
	s := NewStore(calibrated(t))
	m1, _ := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 0))
	m2, _ := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(2, 0))
	require.NoError(t, s.Delete(m2.ID))
	m3, err := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(3, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, m1.ID)
	assert.Equal(t, 2, m2.ID)
	assert.Equal(t, 3, m3.ID)
}

func TestUndoRemovesMostRecent(t *testing.T) {
	s := NewStore(calibrated(t))
	s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 0))
	m2, _ := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(2, 0))

	undone, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, m2.ID, undone.ID)
	assert.Equal(t, 1, s.Len())

	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestUndoAfterDeletingMostRecentIsNoOp(t *testing.T) {
	s := NewStore(calibrated(t))
	s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 0))
	m2, _ := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(2, 0))
	require.NoError(t, s.Delete(m2.ID))

	_, err := s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
	assert.Equal(t, 1, s.Len())
}

func TestDeleteUnknownID(t *testing.T) {
	s := NewStore(calibrated(t))
	err := s.Delete(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecomputeAllPreservesOrderAndIDs(t *testing.T) {
	cal := calibrated(t)
	s := NewStore(cal)
	s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0))
	s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(20, 0))

	// Recalibrate: 100 px = 100 nm, 1 nm per pixel.
	require.NoError(t, cal.Set(100, 100, units.Nanometer))
	require.NoError(t, s.RecomputeAll())

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 2, all[1].ID)
	assert.InDelta(t, 100.0, all[0].Physical, 1e-9)  // 10 px = 10 nm
	assert.InDelta(t, 200.0, all[1].Physical, 1e-9)  // 20 px = 20 nm
	assert.InDelta(t, 10.0, all[0].PixelDistance, 1e-12)
}

func TestValuesFollowDisplayUnit(t *testing.T) {
	cal := calibrated(t)
	s := NewStore(cal)
	s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(20, 0)) // 10 nm

	vals := s.Values()
	require.Len(t, vals, 1)
	assert.InDelta(t, 10.0, vals[0], 1e-9)

	cal.SetDisplayUnit(units.Angstrom)
	vals = s.Values()
	assert.InDelta(t, 100.0, vals[0], 1e-9)
}

func TestClear(t *testing.T) {
	s := NewStore(calibrated(t))
	s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 0))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, err := s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	m, err := s.Add(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, m.ID)
}

func TestCentroid(t *testing.T) {
	m := Measurement{P1: geometry.NewPoint2D(0, 0), P2: geometry.NewPoint2D(4, 6)}
	c := m.Centroid()
	assert.Equal(t, geometry.NewPoint2D(2, 3), c)
}

package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano-measure/internal/measure"
	"nano-measure/internal/scale"
	"nano-measure/internal/units"
	"nano-measure/pkg/geometry"
)

func testStore(t *testing.T) *measure.Store {
	t.Helper()
	cal := scale.New()
	require.NoError(t, cal.Set(10, 10, units.Nanometer)) // 1 nm per px
	return measure.NewStore(cal)
}

// addAt adds a horizontal measurement of the given pixel length whose
// centroid lands at (cx, cy).
func addAt(t *testing.T, s *measure.Store, cx, cy, length float64) *measure.Measurement {
	t.Helper()
	m, err := s.Add(
		geometry.NewPoint2D(cx-length/2, cy),
		geometry.NewPoint2D(cx+length/2, cy),
	)
	require.NoError(t, err)
	return m
}

func TestCreateAssignsByCentroid(t *testing.T) {
	s := testStore(t)
	inside := addAt(t, s, 50, 50, 10)
	outside := addAt(t, s, 200, 200, 10)

	ix := NewIndex(s)
	g := ix.Create(geometry.NewRect(0, 0, 100, 100), "")

	assert.Equal(t, "G1", g.Label)
	assert.Equal(t, g.ID, inside.GroupID)
	assert.Equal(t, measure.Ungrouped, outside.GroupID)
}

func TestCentroidInsideEvenWhenEndpointsOutside(t *testing.T) {
	s := testStore(t)
	// Endpoints straddle the rectangle; only the midpoint is inside.
	m, err := s.Add(geometry.NewPoint2D(-50, 50), geometry.NewPoint2D(150, 50))
	require.NoError(t, err)

	ix := NewIndex(s)
	g := ix.Create(geometry.NewRect(0, 0, 100, 100), "")
	assert.Equal(t, g.ID, m.GroupID)
}

func TestOverlapNewestGroupWins(t *testing.T) {
	s := testStore(t)
	m := addAt(t, s, 50, 50, 10)

	ix := NewIndex(s)
	ix.Create(geometry.NewRect(0, 0, 100, 100), "first")
	g2 := ix.Create(geometry.NewRect(25, 25, 100, 100), "second")

	assert.Equal(t, g2.ID, m.GroupID)
}

func TestReassignAllIsIdempotent(t *testing.T) {
	s := testStore(t)
	m := addAt(t, s, 50, 50, 10)

	ix := NewIndex(s)
	g := ix.Create(geometry.NewRect(0, 0, 100, 100), "")
	ix.ReassignAll()
	ix.ReassignAll()
	assert.Equal(t, g.ID, m.GroupID)
}

func TestDeleteReassignsMembers(t *testing.T) {
	s := testStore(t)
	m := addAt(t, s, 50, 50, 10)

	ix := NewIndex(s)
	g1 := ix.Create(geometry.NewRect(0, 0, 100, 100), "")
	g2 := ix.Create(geometry.NewRect(40, 40, 100, 100), "")
	require.Equal(t, g2.ID, m.GroupID)

	require.NoError(t, ix.Delete(g2.ID))
	assert.Equal(t, g1.ID, m.GroupID)

	require.NoError(t, ix.Delete(g1.ID))
	assert.Equal(t, measure.Ungrouped, m.GroupID)

	assert.ErrorIs(t, ix.Delete(g1.ID), ErrNotFound)
}

func TestStatistics(t *testing.T) {
	s := testStore(t)
	addAt(t, s, 50, 50, 8)
	addAt(t, s, 60, 50, 10)
	addAt(t, s, 70, 50, 12)

	ix := NewIndex(s)
	g := ix.Create(geometry.NewRect(0, 0, 100, 100), "")

	st, err := ix.Statistics(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 10.0, st.Mean, 1e-9)
	assert.InDelta(t, 2.0, st.Std, 1e-9)
	assert.InDelta(t, 8.0, st.Min, 1e-9)
	assert.InDelta(t, 12.0, st.Max, 1e-9)
}

func TestStatisticsErrors(t *testing.T) {
	s := testStore(t)
	ix := NewIndex(s)
	g := ix.Create(geometry.NewRect(0, 0, 10, 10), "")

	_, err := ix.Statistics(g.ID)
	assert.ErrorIs(t, err, ErrEmptyGroup)

	_, err = ix.Statistics(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSingleMemberStdIsZero(t *testing.T) {
	s := testStore(t)
	addAt(t, s, 50, 50, 10)

	ix := NewIndex(s)
	g := ix.Create(geometry.NewRect(0, 0, 100, 100), "")
	st, err := ix.Statistics(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Count)
	assert.Equal(t, 0.0, st.Std)
}

func TestRename(t *testing.T) {
	s := testStore(t)
	ix := NewIndex(s)
	g := ix.Create(geometry.NewRect(0, 0, 10, 10), "")
	require.NoError(t, ix.Rename(g.ID, "sample A"))
	assert.Equal(t, "sample A", g.Label)
	assert.ErrorIs(t, ix.Rename(99, "x"), ErrNotFound)
}

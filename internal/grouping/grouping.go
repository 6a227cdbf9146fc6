// Package grouping partitions measurements into rectangular regions and
// computes per-group summary statistics.
package grouping

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"nano-measure/internal/measure"
	"nano-measure/pkg/geometry"
)

var (
	// ErrNotFound is returned when a group id is not in the index.
	ErrNotFound = errors.New("group not found")

	// ErrEmptyGroup is returned when statistics are requested for a
	// group with no member measurements.
	ErrEmptyGroup = errors.New("group has no measurements")
)

// Group is a user-drawn rectangular region in image coordinates.
type Group struct {
	ID     int
	Bounds geometry.Rect
	Label  string
}

// Stats summarizes the display-unit values of a group's members.
// Std is the sample standard deviation and is 0 for a single member.
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Index holds all groups for a session in creation order. A measurement
// belongs to at most one group, decided by centroid containment; when
// rectangles overlap, the most recently created group wins.
type Index struct {
	store  *measure.Store
	groups []*Group
	byID   map[int]*Group
	nextID int
}

// NewIndex creates an empty group index over the given store.
func NewIndex(store *measure.Store) *Index {
	return &Index{
		store:  store,
		byID:   make(map[int]*Group),
		nextID: 1,
	}
}

// Create adds a new group with the given bounds and assigns every
// measurement whose centroid falls inside them. An empty label gets a
// default "G<n>" name.
func (ix *Index) Create(bounds geometry.Rect, label string) *Group {
	g := &Group{ID: ix.nextID, Bounds: bounds, Label: label}
	ix.nextID++
	if g.Label == "" {
		g.Label = fmt.Sprintf("G%d", g.ID)
	}
	ix.groups = append(ix.groups, g)
	ix.byID[g.ID] = g
	ix.ReassignAll()
	return g
}

// Rename changes a group's label.
func (ix *Index) Rename(id int, label string) error {
	g, ok := ix.byID[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	g.Label = label
	return nil
}

// Delete removes a group. Its members become ungrouped, then every
// measurement is reassigned against the remaining rectangles.
func (ix *Index) Delete(id int) error {
	if _, ok := ix.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	delete(ix.byID, id)
	for i, g := range ix.groups {
		if g.ID == id {
			ix.groups = append(ix.groups[:i], ix.groups[i+1:]...)
			break
		}
	}
	ix.ReassignAll()
	return nil
}

// Get returns the group with the given id.
func (ix *Index) Get(id int) (*Group, error) {
	g, ok := ix.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return g, nil
}

// All returns the groups in creation order. The slice is shared.
func (ix *Index) All() []*Group {
	return ix.groups
}

// Len returns the number of groups.
func (ix *Index) Len() int {
	return len(ix.groups)
}

// Assign sets a single measurement's group membership from the current
// rectangles. Called when a measurement is added.
func (ix *Index) Assign(m *measure.Measurement) {
	m.GroupID = ix.groupFor(m.Centroid())
}

// ReassignAll recomputes every measurement's membership. Idempotent:
// repeated calls with unchanged groups produce identical assignments.
func (ix *Index) ReassignAll() {
	for _, m := range ix.store.All() {
		m.GroupID = ix.groupFor(m.Centroid())
	}
}

// Statistics computes summary statistics over a group's members in the
// current display unit.
func (ix *Index) Statistics(id int) (Stats, error) {
	if _, ok := ix.byID[id]; !ok {
		return Stats{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	vals := ix.store.GroupValues(id)
	if len(vals) == 0 {
		return Stats{}, fmt.Errorf("%w: id %d", ErrEmptyGroup, id)
	}
	return Summarize(vals), nil
}

// Summarize computes Stats over a non-empty value slice.
func Summarize(vals []float64) Stats {
	st := Stats{
		Count: len(vals),
		Mean:  stat.Mean(vals, nil),
		Min:   vals[0],
		Max:   vals[0],
	}
	if len(vals) > 1 {
		st.Std = stat.StdDev(vals, nil)
	}
	for _, v := range vals[1:] {
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	return st
}

// groupFor returns the id of the group containing the point, preferring
// the most recently created rectangle, or measure.Ungrouped.
func (ix *Index) groupFor(p geometry.Point2D) int {
	id := measure.Ungrouped
	for _, g := range ix.groups {
		if g.Bounds.Contains(p) {
			id = g.ID
		}
	}
	return id
}

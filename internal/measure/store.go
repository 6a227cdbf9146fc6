// Package measure provides the ordered log of particle diameter
// measurements for a session.
package measure

import (
	"errors"
	"fmt"

	"nano-measure/internal/scale"
	"nano-measure/pkg/geometry"
)

var (
	// ErrNothingToUndo is returned when the most recently added
	// measurement is no longer present.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNotFound is returned when a measurement id is not in the log.
	ErrNotFound = errors.New("measurement not found")
)

// Ungrouped is the GroupID of a measurement that belongs to no group.
const Ungrouped = 0

// Measurement is one user-recorded particle diameter. Physical holds
// the canonical value in angstroms; display conversion happens at the
// presentation edge.
type Measurement struct {
	ID            int
	P1, P2        geometry.Point2D
	PixelDistance float64
	Physical      float64 // angstroms
	GroupID       int     // Ungrouped when not assigned
}

// Centroid returns the midpoint of the measurement's endpoints, used
// for group containment tests.
func (m *Measurement) Centroid() geometry.Point2D {
	return m.P1.Midpoint(m.P2)
}

// Store is the ordered, mutable measurement log. Insertion order is
// measurement order and drives both undo and CSV export. IDs are
// sequential and never reused after deletion.
type Store struct {
	cal      *scale.Calibration
	log      []*Measurement
	byID     map[int]*Measurement
	addOrder []int // ids in add order, for undo
	nextID   int
}

// NewStore creates an empty store bound to the session calibration.
func NewStore(cal *scale.Calibration) *Store {
	return &Store{
		cal:    cal,
		byID:   make(map[int]*Measurement),
		nextID: 1,
	}
}

// Add records a completed two-click measurement. It fails with
// scale.ErrUncalibrated until the session has been calibrated.
func (s *Store) Add(p1, p2 geometry.Point2D) (*Measurement, error) {
	pixelDist := p1.Distance(p2)
	physical, err := s.cal.Convert(pixelDist)
	if err != nil {
		return nil, err
	}

	m := &Measurement{
		ID:            s.nextID,
		P1:            p1,
		P2:            p2,
		PixelDistance: pixelDist,
		Physical:      physical,
		GroupID:       Ungrouped,
	}
	s.nextID++
	s.log = append(s.log, m)
	s.byID[m.ID] = m
	s.addOrder = append(s.addOrder, m.ID)
	return m, nil
}

// Undo removes the most recently added measurement still present in
// the log and returns it. If the most recent add was already deleted,
// nothing changes and ErrNothingToUndo is reported.
func (s *Store) Undo() (*Measurement, error) {
	if len(s.addOrder) == 0 {
		return nil, ErrNothingToUndo
	}
	id := s.addOrder[len(s.addOrder)-1]
	m, ok := s.byID[id]
	if !ok {
		return nil, ErrNothingToUndo
	}
	s.addOrder = s.addOrder[:len(s.addOrder)-1]
	s.removeFromLog(id)
	return m, nil
}

// Delete removes a measurement by id.
func (s *Store) Delete(id int) error {
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	s.removeFromLog(id)
	return nil
}

// Clear removes every measurement. Assigned ids stay burned.
func (s *Store) Clear() {
	s.log = nil
	s.addOrder = nil
	s.byID = make(map[int]*Measurement)
}

// Get returns the measurement with the given id, or ErrNotFound.
func (s *Store) Get(id int) (*Measurement, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return m, nil
}

// Len returns the number of measurements in the log.
func (s *Store) Len() int {
	return len(s.log)
}

// All returns the measurements in insertion order. The slice is shared;
// callers must not reorder it.
func (s *Store) All() []*Measurement {
	return s.log
}

// RecomputeAll refreshes every measurement's physical value from the
// current calibration, preserving ids and order. Called after the
// scale bar is (re)calibrated.
func (s *Store) RecomputeAll() error {
	for _, m := range s.log {
		physical, err := s.cal.Convert(m.PixelDistance)
		if err != nil {
			return err
		}
		m.Physical = physical
	}
	return nil
}

// Values returns all physical values converted to the display unit,
// in insertion order.
func (s *Store) Values() []float64 {
	vals := make([]float64, len(s.log))
	for i, m := range s.log {
		vals[i] = s.cal.ToDisplay(m.Physical)
	}
	return vals
}

// GroupValues returns display-unit values of the measurements assigned
// to the given group, in insertion order.
func (s *Store) GroupValues(groupID int) []float64 {
	var vals []float64
	for _, m := range s.log {
		if m.GroupID == groupID {
			vals = append(vals, s.cal.ToDisplay(m.Physical))
		}
	}
	return vals
}

// Calibration returns the calibration this store converts through.
func (s *Store) Calibration() *scale.Calibration {
	return s.cal
}

func (s *Store) removeFromLog(id int) {
	delete(s.byID, id)
	for i, m := range s.log {
		if m.ID == id {
			s.log = append(s.log[:i], s.log[i+1:]...)
			return
		}
	}
}

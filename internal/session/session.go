// Package session ties calibration, measurements, grouping, and export
// together as the single mutable state behind the UI.
package session

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"nano-measure/internal/distribution"
	"nano-measure/internal/export"
	"nano-measure/internal/grouping"
	"nano-measure/internal/imageio"
	"nano-measure/internal/measure"
	"nano-measure/internal/scale"
	"nano-measure/internal/units"
	"nano-measure/pkg/geometry"
)

// EventType identifies session events the UI can subscribe to.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventCalibrationChanged
	EventUnitChanged
	EventMeasurementsChanged
	EventGroupsChanged
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session is the application state for one open image. All methods are
// expected to run on the UI goroutine; the listener map has its own
// lock so background work may subscribe safely.
type Session struct {
	mu  sync.RWMutex
	log zerolog.Logger

	Frame       *imageio.Frame
	Calibration *scale.Calibration
	Store       *measure.Store
	Groups      *grouping.Index

	listeners map[EventType][]EventListener
}

// New creates an empty session.
func New(log zerolog.Logger) *Session {
	cal := scale.New()
	store := measure.NewStore(cal)
	return &Session{
		log:         log,
		Calibration: cal,
		Store:       store,
		Groups:      grouping.NewIndex(store),
		listeners:   make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage opens a new image and resets all measurement state.
func (s *Session) LoadImage(path string) error {
	frame, err := imageio.Load(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("image load failed")
		return err
	}

	s.Frame = frame
	s.Store.Clear()
	for _, g := range append([]*grouping.Group(nil), s.Groups.All()...) {
		s.Groups.Delete(g.ID)
	}
	s.log.Info().Str("path", path).
		Int("width", frame.Image.Bounds().Dx()).
		Int("height", frame.Image.Bounds().Dy()).
		Msg("image loaded")
	s.Emit(EventImageLoaded, frame)
	s.Emit(EventMeasurementsChanged, nil)
	s.Emit(EventGroupsChanged, nil)
	return nil
}

// Calibrate records a new scale and recomputes existing measurements
// against it.
func (s *Session) Calibrate(pixelDistance, physicalLength float64, unit units.Unit) error {
	if err := s.Calibration.Set(pixelDistance, physicalLength, unit); err != nil {
		return err
	}
	if err := s.Store.RecomputeAll(); err != nil {
		return err
	}
	s.log.Info().
		Float64("pixels", pixelDistance).
		Float64("length", physicalLength).
		Stringer("unit", unit).
		Float64("factor", s.Calibration.FactorInDisplay()).
		Msg("scale calibrated")
	s.Emit(EventCalibrationChanged, nil)
	s.Emit(EventMeasurementsChanged, nil)
	return nil
}

// SetDisplayUnit switches the presentation unit. Stored values are
// untouched; only formatting changes.
func (s *Session) SetDisplayUnit(u units.Unit) {
	if u == s.Calibration.DisplayUnit() {
		return
	}
	s.Calibration.SetDisplayUnit(u)
	s.Emit(EventUnitChanged, u)
	s.Emit(EventMeasurementsChanged, nil)
}

// AddMeasurement records a completed two-click measurement and assigns
// its group membership.
func (s *Session) AddMeasurement(p1, p2 geometry.Point2D) (*measure.Measurement, error) {
	m, err := s.Store.Add(p1, p2)
	if err != nil {
		return nil, err
	}
	s.Groups.Assign(m)
	s.log.Debug().Int("id", m.ID).
		Float64("px", m.PixelDistance).
		Float64("value", s.Calibration.ToDisplay(m.Physical)).
		Msg("measurement added")
	s.Emit(EventMeasurementsChanged, nil)
	return m, nil
}

// Undo removes the most recently added measurement.
func (s *Session) Undo() error {
	m, err := s.Store.Undo()
	if err != nil {
		return err
	}
	s.log.Debug().Int("id", m.ID).Msg("measurement undone")
	s.Emit(EventMeasurementsChanged, nil)
	return nil
}

// DeleteMeasurement removes a measurement by id.
func (s *Session) DeleteMeasurement(id int) error {
	if err := s.Store.Delete(id); err != nil {
		return err
	}
	s.Emit(EventMeasurementsChanged, nil)
	return nil
}

// ClearMeasurements empties the measurement log.
func (s *Session) ClearMeasurements() {
	s.Store.Clear()
	s.Emit(EventMeasurementsChanged, nil)
}

// CreateGroup adds a rectangular group and assigns memberships.
func (s *Session) CreateGroup(bounds geometry.Rect, label string) *grouping.Group {
	g := s.Groups.Create(bounds, label)
	s.log.Debug().Int("id", g.ID).Str("label", g.Label).Msg("group created")
	s.Emit(EventGroupsChanged, nil)
	s.Emit(EventMeasurementsChanged, nil)
	return g
}

// DeleteGroup removes a group; its members rejoin whatever rectangle
// still contains them.
func (s *Session) DeleteGroup(id int) error {
	if err := s.Groups.Delete(id); err != nil {
		return err
	}
	s.Emit(EventGroupsChanged, nil)
	s.Emit(EventMeasurementsChanged, nil)
	return nil
}

// RenameGroup relabels a group.
func (s *Session) RenameGroup(id int, label string) error {
	if err := s.Groups.Rename(id, label); err != nil {
		return err
	}
	s.Emit(EventGroupsChanged, nil)
	return nil
}

// Fit builds the diameter histogram and Gaussian fit over all
// measurements in the display unit.
func (s *Session) Fit(bins int) (*distribution.Result, error) {
	return distribution.Fit(s.Store.Values(), bins)
}

// ExportCSV writes the session to w. An unconverged or impossible fit
// is exported as N/A rather than failing the export.
func (s *Session) ExportCSV(w io.Writer) error {
	fit, err := s.Fit(0)
	if err != nil {
		s.log.Warn().Err(err).Msg("exporting without gaussian fit")
	}
	if err := export.WriteCSV(w, s.Store, s.Groups, fit); err != nil {
		return err
	}
	s.Emit(EventExported, nil)
	return nil
}

// ExportCSVFile writes the session to a file at path.
func (s *Session) ExportCSVFile(path string) error {
	fit, err := s.Fit(0)
	if err != nil {
		s.log.Warn().Err(err).Msg("exporting without gaussian fit")
	}
	if err := export.SaveCSV(path, s.Store, s.Groups, fit); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Int("measurements", s.Store.Len()).Msg("csv exported")
	s.Emit(EventExported, path)
	return nil
}

// Package canvas provides overlay types for the image canvas.
package canvas

import (
	"image/color"
)

// Overlay represents a drawable overlay on the canvas. Coordinates are
// in image space; the canvas scales them with the zoom level.
type Overlay struct {
	Lines   []OverlayLine
	Rects   []OverlayRect
	Crosses []OverlayCross
	Color   color.RGBA
}

// OverlayLine is a measurement segment with endpoint markers.
type OverlayLine struct {
	X1, Y1, X2, Y2 float64
	Label          string // optional, drawn at the midpoint
}

// OverlayRect is a rectangle outline, used for group regions and
// detected particle bounds.
type OverlayRect struct {
	X, Y, Width, Height float64
	Label               string // optional, drawn at the top-left corner
}

// OverlayCross is a small cross marker, used for pending first clicks
// and detected centroids.
type OverlayCross struct {
	X, Y float64
}

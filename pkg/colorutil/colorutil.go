// Package colorutil provides shared color utilities for overlays and detection.
package colorutil

import (
	"image/color"
	"math"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 255, G: 51, B: 51, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue    = color.RGBA{R: 0, G: 130, B: 200, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Cyan    = color.RGBA{R: 0, G: 204, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Orange  = color.RGBA{R: 255, G: 153, B: 0, A: 255}
)

// GroupPalette is the color rotation for group rectangles and detected
// particle overlays.
var GroupPalette = []color.RGBA{
	Green, Cyan, Orange, Magenta, Yellow,
	{R: 0, G: 255, B: 204, A: 255},
	{R: 255, G: 102, B: 102, A: 255},
	{R: 153, G: 102, B: 255, A: 255},
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}

// HueDistance returns the circular distance between two hues in the
// OpenCV 0-180 range.
func HueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 180.0-d)
}

// CircularMeanHue averages hues in the 0-180 range, handling wraparound.
func CircularMeanHue(hues []float64) float64 {
	if len(hues) == 0 {
		return 0
	}
	var sumSin, sumCos float64
	for _, h := range hues {
		rad := h * math.Pi / 90.0 // 0-180 -> 0-2pi
		sumSin += math.Sin(rad)
		sumCos += math.Cos(rad)
	}
	mean := math.Atan2(sumSin/float64(len(hues)), sumCos/float64(len(hues))) * 90.0 / math.Pi
	return math.Mod(mean+180.0, 180.0)
}

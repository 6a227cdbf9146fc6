// Package histview renders the diameter histogram and fitted Gaussian
// in a separate window.
package histview

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"nano-measure/internal/distribution"
	"nano-measure/internal/i18n"
	"nano-measure/pkg/colorutil"
)

const (
	plotWidth  = 640
	plotHeight = 400
	marginLeft = 40
	marginBot  = 30
	marginTop  = 15
)

// Show opens a window with the histogram plot and fit summary.
func Show(app fyne.App, res *distribution.Result, unit string) {
	win := app.NewWindow(i18n.T("hist.title"))

	img := Render(res, plotWidth, plotHeight)
	plot := fynecanvas.NewImageFromImage(img)
	plot.FillMode = fynecanvas.ImageFillOriginal

	var summary string
	if res.Converged {
		summary = fmt.Sprintf("n=%d   μ=%.3f %s   σ=%.3f %s",
			totalCount(res), res.Mu, unit, res.Sigma, unit)
	} else {
		summary = fmt.Sprintf("n=%d   %s", totalCount(res), i18n.T("hist.nofit"))
	}

	win.SetContent(container.NewBorder(
		nil, widget.NewLabel(summary), nil, nil, plot))
	win.Resize(fyne.NewSize(plotWidth+20, plotHeight+80))
	win.Show()
}

// Render draws the histogram bars and, when available, the fitted
// curve into an RGBA image.
func Render(res *distribution.Result, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, color.RGBA{R: 24, G: 24, B: 24, A: 255})

	if len(res.BinCounts) == 0 {
		return img
	}

	maxY := maxCount(res)
	if res.Converged {
		for _, y := range res.CurveY {
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxY <= 0 {
		return img
	}

	plotW := w - marginLeft - 10
	plotH := h - marginTop - marginBot
	xMin := res.BinEdges[0]
	xMax := res.BinEdges[len(res.BinEdges)-1]
	xSpan := xMax - xMin

	toPx := func(x, y float64) (int, int) {
		px := marginLeft + int((x-xMin)/xSpan*float64(plotW))
		py := marginTop + plotH - int(y/maxY*float64(plotH))
		return px, py
	}

	// Bars
	barColor := color.RGBA{R: 70, G: 130, B: 200, A: 255}
	for i, count := range res.BinCounts {
		x0, _ := toPx(res.BinEdges[i], 0)
		x1, _ := toPx(res.BinEdges[i+1], 0)
		_, yTop := toPx(res.BinEdges[i], float64(count))
		for x := x0; x < x1-1; x++ {
			for y := yTop; y < marginTop+plotH; y++ {
				setPx(img, x, y, barColor)
			}
		}
	}

	// Axes
	axis := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for x := marginLeft; x < w-10; x++ {
		setPx(img, x, marginTop+plotH, axis)
	}
	for y := marginTop; y <= marginTop+plotH; y++ {
		setPx(img, marginLeft, y, axis)
	}

	// Fitted curve
	if res.Converged {
		prevX, prevY := toPx(res.CurveX[0], res.CurveY[0])
		for i := 1; i < len(res.CurveX); i++ {
			x, y := toPx(res.CurveX[i], res.CurveY[i])
			drawSegment(img, prevX, prevY, x, y, colorutil.Orange)
			prevX, prevY = x, y
		}
	}

	return img
}

func totalCount(res *distribution.Result) int {
	total := 0
	for _, c := range res.BinCounts {
		total += c
	}
	return total
}

func maxCount(res *distribution.Result) float64 {
	var m float64
	for _, c := range res.BinCounts {
		if float64(c) > m {
			m = float64(c)
		}
	}
	return m
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func setPx(img *image.RGBA, x, y int, c color.RGBA) {
	b := img.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		img.Set(x, y, c)
	}
}

// drawSegment draws a thin line with Bresenham stepping.
func drawSegment(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		setPx(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

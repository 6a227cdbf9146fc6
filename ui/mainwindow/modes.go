package mainwindow

import (
	"errors"
	"fmt"
	"image"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"gocv.io/x/gocv"

	"nano-measure/internal/detect"
	"nano-measure/internal/i18n"
	"nano-measure/internal/scale"
	"nano-measure/internal/scalebar"
	"nano-measure/internal/units"
	"nano-measure/pkg/colorutil"
	"nano-measure/pkg/geometry"
	"nano-measure/ui/canvas"
	"nano-measure/ui/dialogs"
)

// Mode is the active canvas interaction mode.
type Mode int

const (
	ModePan Mode = iota
	ModeCalibrate
	ModeMeasure
	ModeGroup
	ModePick
	ModeScaleBar
)

// Label returns the toolbar caption for the mode.
func (m Mode) Label() string {
	switch m {
	case ModePan:
		return i18n.T("mode.pan")
	case ModeCalibrate:
		return i18n.T("mode.calibrate")
	case ModeMeasure:
		return i18n.T("mode.measure")
	case ModeGroup:
		return i18n.T("mode.group")
	case ModePick:
		return i18n.T("mode.detect")
	case ModeScaleBar:
		return i18n.T("mode.scalebar")
	default:
		return "?"
	}
}

// setMode switches the interaction mode and resets gesture state.
func (mw *MainWindow) setMode(mode Mode) {
	for m, btn := range mw.modeButtons {
		if m == mode {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}

	mw.mode = mode
	mw.awaitingSecond = false
	mw.pickSamples = nil
	mw.canvas.ClearOverlay("pending")
	mw.canvas.ClearOverlay("detected")

	switch mode {
	case ModeGroup:
		mw.canvas.EnableSelectMode()
		mw.updateStatus(i18n.T("group.prompt"))
	case ModeScaleBar:
		mw.canvas.EnableSelectMode()
		mw.updateStatus(i18n.T("mode.scalebar"))
	case ModeCalibrate:
		mw.updateStatus(i18n.T("scale.prompt"))
	case ModeMeasure:
		mw.updateStatus(i18n.T("measure.prompt"))
	case ModePick:
		mw.updateStatus(i18n.T("mode.detect"))
	default:
		mw.updateStatus("Ready")
	}
}

// setupCanvasCallbacks wires clicks and selections to the mode machine.
func (mw *MainWindow) setupCanvasCallbacks() {
	mw.canvas.OnLeftClick(mw.onLeftClick)
	mw.canvas.OnRightClick(mw.onRightClick)
	mw.canvas.OnSelect(mw.onRegionSelected)
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom %.0f%%", zoom*100))
	})
}

func (mw *MainWindow) onLeftClick(x, y float64) {
	switch mw.mode {
	case ModeCalibrate, ModeMeasure:
		mw.onPointClick(x, y)
	case ModePick:
		mw.onPickClick(x, y)
	}
}

// onRightClick cancels a pending first point, or undoes the last
// measurement in measure mode.
func (mw *MainWindow) onRightClick(x, y float64) {
	if mw.awaitingSecond {
		mw.awaitingSecond = false
		mw.canvas.ClearOverlay("pending")
		return
	}
	if mw.mode == ModeMeasure {
		mw.onUndo()
	}
	if mw.mode == ModePick && len(mw.pickSamples) > 0 {
		mw.runDetection()
	}
}

// onPointClick advances the two-click gesture for calibrate and
// measure modes.
func (mw *MainWindow) onPointClick(x, y float64) {
	if !mw.awaitingSecond {
		mw.awaitingSecond = true
		mw.firstX, mw.firstY = x, y
		mw.canvas.SetOverlay("pending", &canvas.Overlay{
			Color:   colorutil.Yellow,
			Crosses: []canvas.OverlayCross{{X: x, Y: y}},
		})
		return
	}

	mw.awaitingSecond = false
	mw.canvas.ClearOverlay("pending")
	p1 := geometry.NewPoint2D(mw.firstX, mw.firstY)
	p2 := geometry.NewPoint2D(x, y)

	if mw.mode == ModeCalibrate {
		mw.finishCalibration(p1, p2)
		return
	}
	mw.finishMeasurement(p1, p2)
}

func (mw *MainWindow) finishCalibration(p1, p2 geometry.Point2D) {
	pixelDist := p1.Distance(p2)
	if pixelDist == 0 {
		return
	}
	dialogs.NewScaleDialog(mw.Window, pixelDist,
		func(pixels, length float64, unit units.Unit) {
			if err := mw.session.Calibrate(pixels, length, unit); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}).Show()
}

func (mw *MainWindow) finishMeasurement(p1, p2 geometry.Point2D) {
	m, err := mw.session.AddMeasurement(p1, p2)
	if err != nil {
		if errors.Is(err, scale.ErrUncalibrated) {
			dialog.ShowInformation(i18n.T("mode.measure"),
				i18n.T("error.uncalibrated"), mw.Window)
			return
		}
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus(fmt.Sprintf("#%d: %.3f %s", m.ID,
		mw.session.Calibration.ToDisplay(m.Physical),
		mw.session.Calibration.DisplayUnit()))
}

// onRegionSelected completes group and scale bar region drags.
func (mw *MainWindow) onRegionSelected(x1, y1, x2, y2 float64) {
	switch mw.mode {
	case ModeGroup:
		bounds := geometry.RectFromCorners(
			geometry.NewPoint2D(x1, y1), geometry.NewPoint2D(x2, y2))
		dialogs.ShowGroupName(mw.Window, func(label string) {
			mw.session.CreateGroup(bounds, label)
		})
		// Re-arm so several groups can be drawn in a row.
		mw.canvas.EnableSelectMode()
	case ModeScaleBar:
		mw.readScaleBar(geometry.RectInt{
			X: int(x1), Y: int(y1),
			Width: int(x2 - x1), Height: int(y2 - y1),
		})
	}
}

// onPickClick collects a color sample under the cursor.
func (mw *MainWindow) onPickClick(x, y float64) {
	img := mw.canvas.GetImage()
	if img == nil {
		return
	}
	b := img.Bounds()
	px, py := int(x)+b.Min.X, int(y)+b.Min.Y
	if !image.Pt(px, py).In(b) {
		return
	}

	r, g, bl, _ := img.At(px, py).RGBA()
	mw.pickSamples = append(mw.pickSamples, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)})
	mw.updateStatus(fmt.Sprintf("%s (%d)", i18n.T("mode.detect"), len(mw.pickSamples)))
}

// runDetection thresholds the image around the sampled colors and
// overlays the detected blobs.
func (mw *MainWindow) runDetection() {
	img := mw.canvas.GetImage()
	if img == nil || len(mw.pickSamples) == 0 {
		return
	}

	samples := make([]gocv.Vecb, len(mw.pickSamples))
	for i, s := range mw.pickSamples {
		samples[i] = gocv.Vecb{s[2], s[1], s[0]} // BGR
	}
	params := detect.ParamsFromSamples(samples, 10, 60, 60)
	mw.pickSamples = nil

	go func() {
		blobs, err := detect.Run(img, params)
		if err != nil {
			mw.log.Error().Err(err).Msg("particle detection failed")
			return
		}
		mw.log.Info().Int("blobs", len(blobs)).Msg("particle detection complete")

		overlay := &canvas.Overlay{Color: colorutil.Magenta}
		for _, b := range blobs {
			r := b.Bounds.ToFloat()
			overlay.Rects = append(overlay.Rects, canvas.OverlayRect{
				X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
			})
			overlay.Crosses = append(overlay.Crosses, canvas.OverlayCross{
				X: b.Centroid.X, Y: b.Centroid.Y,
			})
		}
		mw.canvas.SetOverlay("detected", overlay)
		mw.updateStatus(fmt.Sprintf("%d particles", len(blobs)))
	}()
}

// readScaleBar OCRs the selected region and opens the calibration
// dialog prefilled with the parsed legend. The pixel span is the
// region width, the usual way a scale bar is framed.
func (mw *MainWindow) readScaleBar(region geometry.RectInt) {
	img := mw.canvas.GetImage()
	if img == nil || region.Width <= 0 || region.Height <= 0 {
		return
	}

	go func() {
		engine, err := scalebar.NewEngine()
		if err != nil {
			mw.log.Error().Err(err).Msg("ocr engine init failed")
			dialog.ShowError(err, mw.Window)
			return
		}
		defer engine.Close()

		legend, err := engine.ReadRegion(img, region)
		if err != nil {
			mw.log.Warn().Err(err).Msg("scale bar read failed")
			dialog.ShowInformation(i18n.T("mode.scalebar"),
				i18n.T("error.no_legend"), mw.Window)
			return
		}

		mw.log.Info().Float64("value", legend.Value).
			Stringer("unit", legend.Unit).Msg("scale bar legend read")

		d := dialogs.NewScaleDialog(mw.Window, float64(region.Width),
			func(pixels, length float64, unit units.Unit) {
				if err := mw.session.Calibrate(pixels, length, unit); err != nil {
					dialog.ShowError(err, mw.Window)
				}
			})
		d.Prefill(legend.Value, legend.Unit)
		d.Show()
	}()
}

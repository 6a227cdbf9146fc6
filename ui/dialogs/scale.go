// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nano-measure/internal/i18n"
	"nano-measure/internal/units"
)

// ScaleDialog collects the physical length and unit for a measured
// scale bar span.
type ScaleDialog struct {
	window fyne.Window

	pixelDistance float64
	lengthEntry   *widget.Entry
	unitSelect    *widget.Select

	onApply func(pixelDistance, physicalLength float64, unit units.Unit)
}

// NewScaleDialog creates a calibration dialog for a span of
// pixelDistance pixels.
func NewScaleDialog(window fyne.Window, pixelDistance float64,
	onApply func(pixelDistance, physicalLength float64, unit units.Unit)) *ScaleDialog {
	d := &ScaleDialog{
		window:        window,
		pixelDistance: pixelDistance,
		onApply:       onApply,
	}

	d.lengthEntry = widget.NewEntry()
	d.lengthEntry.SetPlaceHolder("50")

	names := make([]string, 0, len(units.All()))
	for _, u := range units.All() {
		names = append(names, u.String())
	}
	d.unitSelect = widget.NewSelect(names, nil)
	d.unitSelect.SetSelected(units.Nanometer.String())

	return d
}

// Prefill sets the initial length and unit, e.g. from a scale bar OCR
// read.
func (d *ScaleDialog) Prefill(length float64, unit units.Unit) {
	d.lengthEntry.SetText(strconv.FormatFloat(length, 'f', -1, 64))
	d.unitSelect.SetSelected(unit.String())
}

// Show displays the dialog.
func (d *ScaleDialog) Show() {
	pixelLabel := widget.NewLabel(
		fmt.Sprintf("%s: %.2f px", i18n.T("scale.pixels"), d.pixelDistance))

	form := widget.NewForm(
		widget.NewFormItem(i18n.T("scale.length"), d.lengthEntry),
		widget.NewFormItem(i18n.T("scale.unit"), d.unitSelect),
	)
	content := container.NewVBox(pixelLabel, form)

	dlg := dialog.NewCustomConfirm(
		i18n.T("scale.title"),
		"OK",
		"Cancel",
		content,
		func(apply bool) {
			if !apply {
				return
			}
			length, err := strconv.ParseFloat(d.lengthEntry.Text, 64)
			if err != nil || length <= 0 {
				dialog.ShowError(fmt.Errorf("invalid length %q", d.lengthEntry.Text), d.window)
				return
			}
			unit, err := units.Parse(d.unitSelect.Selected)
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onApply != nil {
				d.onApply(d.pixelDistance, length, unit)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(320, 200))
	dlg.Show()
}

package dialogs

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nano-measure/internal/i18n"
)

// ShowGroupName asks for a group label. An empty entry keeps the
// default name.
func ShowGroupName(window fyne.Window, onApply func(label string)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(i18n.T("group.default"))

	dlg := dialog.NewCustomConfirm(
		i18n.T("group.title"),
		"OK",
		"Cancel",
		entry,
		func(apply bool) {
			if !apply {
				return
			}
			if onApply != nil {
				onApply(entry.Text)
			}
		},
		window,
	)
	dlg.Resize(fyne.NewSize(280, 140))
	dlg.Show()
}

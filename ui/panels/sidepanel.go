// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nano-measure/internal/grouping"
	"nano-measure/internal/i18n"
	"nano-measure/internal/session"
	"nano-measure/internal/units"
)

// SidePanel shows the calibration state, the measurement list with
// summary statistics, and the group list.
type SidePanel struct {
	session *session.Session
	window  fyne.Window

	scaleLabel *widget.Label
	unitSelect *widget.Select

	measurementList *widget.List
	selectedRow     int // index into the store log, -1 when none

	countLabel *widget.Label
	meanLabel  *widget.Label
	stdLabel   *widget.Label

	groupList     *widget.List
	selectedGroup int // index into the group slice, -1 when none

	container fyne.CanvasObject

	// OnShowHistogram opens the histogram window.
	OnShowHistogram func()
}

// NewSidePanel creates the side panel bound to the session.
func NewSidePanel(sess *session.Session, window fyne.Window) *SidePanel {
	sp := &SidePanel{
		session:       sess,
		window:        window,
		selectedRow:   -1,
		selectedGroup: -1,
	}

	sp.scaleLabel = widget.NewLabel(i18n.T("scale.none"))
	sp.scaleLabel.Wrapping = fyne.TextWrapWord

	names := make([]string, 0, len(units.All()))
	for _, u := range units.All() {
		names = append(names, u.String())
	}
	sp.unitSelect = widget.NewSelect(names, func(name string) {
		u, err := units.Parse(name)
		if err != nil {
			return
		}
		sp.session.SetDisplayUnit(u)
	})
	sp.unitSelect.SetSelected(sess.Calibration.DisplayUnit().String())

	sp.countLabel = widget.NewLabel("")
	sp.meanLabel = widget.NewLabel("")
	sp.stdLabel = widget.NewLabel("")

	sp.measurementList = widget.NewList(
		func() int { return sp.session.Store.Len() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			all := sp.session.Store.All()
			if i < 0 || i >= len(all) {
				return
			}
			m := all[i]
			label := fmt.Sprintf("#%d  %.3f %s", m.ID,
				sp.session.Calibration.ToDisplay(m.Physical),
				sp.session.Calibration.DisplayUnit())
			if m.GroupID != 0 {
				if g, err := sp.session.Groups.Get(m.GroupID); err == nil {
					label += "  [" + g.Label + "]"
				}
			}
			obj.(*widget.Label).SetText(label)
		},
	)
	sp.measurementList.OnSelected = func(i widget.ListItemID) { sp.selectedRow = i }
	sp.measurementList.OnUnselected = func(widget.ListItemID) { sp.selectedRow = -1 }

	sp.groupList = widget.NewList(
		func() int { return sp.session.Groups.Len() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			groups := sp.session.Groups.All()
			if i < 0 || i >= len(groups) {
				return
			}
			g := groups[i]
			text := g.Label
			if st, err := sp.session.Groups.Statistics(g.ID); err == nil {
				text = fmt.Sprintf("%s  n=%d  %.3f±%.3f %s", g.Label,
					st.Count, st.Mean, st.Std, sp.session.Calibration.DisplayUnit())
			}
			obj.(*widget.Label).SetText(text)
		},
	)
	sp.groupList.OnSelected = func(i widget.ListItemID) { sp.selectedGroup = i }
	sp.groupList.OnUnselected = func(widget.ListItemID) { sp.selectedGroup = -1 }

	sp.container = sp.buildLayout()
	sp.subscribe()
	sp.refreshStats()
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

func (sp *SidePanel) buildLayout() fyne.CanvasObject {
	undoBtn := widget.NewButton(i18n.T("menu.undo"), func() {
		if err := sp.session.Undo(); err != nil {
			dialog.ShowInformation(i18n.T("menu.undo"), i18n.T("error.nothing_undo"), sp.window)
		}
	})
	deleteBtn := widget.NewButton("Delete", sp.deleteSelected)
	clearBtn := widget.NewButton(i18n.T("menu.clear"), func() {
		dialog.ShowConfirm(i18n.T("menu.clear"), i18n.T("menu.clear")+"?", func(ok bool) {
			if ok {
				sp.session.ClearMeasurements()
			}
		}, sp.window)
	})
	histBtn := widget.NewButton(i18n.T("menu.histogram"), func() {
		if sp.OnShowHistogram != nil {
			sp.OnShowHistogram()
		}
	})
	deleteGroupBtn := widget.NewButton(i18n.T("group.delete"), sp.deleteSelectedGroup)

	scaleCard := widget.NewCard(i18n.T("scale.title"), "",
		container.NewVBox(sp.scaleLabel, sp.unitSelect))

	statsBox := container.NewVBox(sp.countLabel, sp.meanLabel, sp.stdLabel)
	statsCard := widget.NewCard(i18n.T("measure.count"), "", statsBox)

	measureButtons := container.NewHBox(undoBtn, deleteBtn, clearBtn)

	top := container.NewVBox(scaleCard, statsCard, measureButtons, histBtn)
	groupBottom := container.NewVBox(deleteGroupBtn)

	split := container.NewVSplit(
		container.NewBorder(top, nil, nil, nil, sp.measurementList),
		container.NewBorder(nil, groupBottom, nil, nil, sp.groupList),
	)
	split.SetOffset(0.65)
	return split
}

func (sp *SidePanel) subscribe() {
	sp.session.On(session.EventCalibrationChanged, func(interface{}) {
		sp.unitSelect.SetSelected(sp.session.Calibration.DisplayUnit().String())
		sp.refreshScale()
	})
	sp.session.On(session.EventUnitChanged, func(interface{}) {
		sp.refreshScale()
		sp.refreshAll()
	})
	sp.session.On(session.EventMeasurementsChanged, func(interface{}) {
		sp.refreshAll()
	})
	sp.session.On(session.EventGroupsChanged, func(interface{}) {
		sp.groupList.Refresh()
	})
}

func (sp *SidePanel) refreshAll() {
	sp.measurementList.Refresh()
	sp.groupList.Refresh()
	sp.refreshStats()
}

func (sp *SidePanel) refreshScale() {
	cal := sp.session.Calibration
	if !cal.Calibrated() {
		sp.scaleLabel.SetText(i18n.T("scale.none"))
		return
	}
	sp.scaleLabel.SetText(fmt.Sprintf("%s: %.4f %s/px",
		i18n.T("scale.factor"), cal.FactorInDisplay(), cal.DisplayUnit()))
}

func (sp *SidePanel) refreshStats() {
	vals := sp.session.Store.Values()
	unit := sp.session.Calibration.DisplayUnit().String()
	sp.countLabel.SetText(fmt.Sprintf("%s: %d", i18n.T("measure.count"), len(vals)))
	if len(vals) == 0 {
		sp.meanLabel.SetText(i18n.T("measure.mean") + ": -")
		sp.stdLabel.SetText(i18n.T("measure.std") + ": -")
		return
	}
	st := grouping.Summarize(vals)
	sp.meanLabel.SetText(fmt.Sprintf("%s: %.3f %s", i18n.T("measure.mean"), st.Mean, unit))
	sp.stdLabel.SetText(fmt.Sprintf("%s: %.3f %s", i18n.T("measure.std"), st.Std, unit))
}

func (sp *SidePanel) deleteSelected() {
	all := sp.session.Store.All()
	if sp.selectedRow < 0 || sp.selectedRow >= len(all) {
		return
	}
	id := all[sp.selectedRow].ID
	sp.selectedRow = -1
	sp.measurementList.UnselectAll()
	if err := sp.session.DeleteMeasurement(id); err != nil {
		dialog.ShowError(err, sp.window)
	}
}

func (sp *SidePanel) deleteSelectedGroup() {
	groups := sp.session.Groups.All()
	if sp.selectedGroup < 0 || sp.selectedGroup >= len(groups) {
		return
	}
	id := groups[sp.selectedGroup].ID
	sp.selectedGroup = -1
	sp.groupList.UnselectAll()
	if err := sp.session.DeleteGroup(id); err != nil {
		dialog.ShowError(err, sp.window)
	}
}

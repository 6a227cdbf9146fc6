// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"nano-measure/internal/i18n"
	"nano-measure/internal/imageio"
	"nano-measure/internal/session"
	"nano-measure/internal/version"
	"nano-measure/pkg/colorutil"
	"nano-measure/ui/canvas"
	"nano-measure/ui/histview"
	"nano-measure/ui/panels"
	"nano-measure/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	log       zerolog.Logger
	session   *session.Session
	prefs     *prefs.Prefs
	canvas    *canvas.ImageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	mode        Mode
	modeButtons map[Mode]*widget.Button

	// Two-click gesture state
	awaitingSecond bool
	firstX, firstY float64

	// Color samples collected in pick mode
	pickSamples [][3]uint8

	fitToWindowItem *fyne.MenuItem
}

// New creates the main window.
func New(fyneApp fyne.App, sess *session.Session, p *prefs.Prefs, log zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow(i18n.T("app.title"))

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		log:     log,
		session: sess,
		prefs:   p,
		mode:    ModePan,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupCanvasCallbacks()

	win.Resize(fyne.NewSize(1100, 750))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas()
	mw.sidePanel = panels.NewSidePanel(mw.session, mw.Window)
	mw.sidePanel.OnShowHistogram = mw.onShowHistogram
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		mw.canvas.Container(),
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.28)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)

	mw.SetContent(content)
}

// createToolbar creates the mode buttons and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.modeButtons = make(map[Mode]*widget.Button)
	modes := []Mode{ModePan, ModeCalibrate, ModeMeasure, ModeGroup, ModePick, ModeScaleBar}

	items := make([]fyne.CanvasObject, 0, len(modes)+5)
	for _, m := range modes {
		mode := m
		btn := widget.NewButton(mode.Label(), func() { mw.setMode(mode) })
		mw.modeButtons[mode] = btn
		items = append(items, btn)
	}
	mw.modeButtons[ModePan].Importance = widget.HighImportance

	items = append(items,
		widget.NewSeparator(),
		widget.NewButton("-", func() { mw.canvas.ZoomOut() }),
		widget.NewButton("+", func() { mw.canvas.ZoomIn() }),
		widget.NewButton("Fit", mw.onToggleFitToWindow),
		widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) }),
	)

	return container.NewHBox(items...)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu(i18n.T("menu.file"),
		fyne.NewMenuItem(i18n.T("menu.open"), mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(i18n.T("menu.export"), mw.onExportCSV),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(i18n.T("menu.quit"), func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu(i18n.T("menu.edit"),
		fyne.NewMenuItem(i18n.T("menu.undo"), mw.onUndo),
		fyne.NewMenuItem(i18n.T("menu.clear"), mw.onClear),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)
	viewMenu := fyne.NewMenu(i18n.T("menu.view"),
		fyne.NewMenuItem("Zoom In", func() { mw.canvas.ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.canvas.ZoomOut() }),
		mw.fitToWindowItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(i18n.T("menu.histogram"), mw.onShowHistogram),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(i18n.T("menu.language"), mw.onToggleLanguage),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(session.EventImageLoaded, func(data interface{}) {
		if frame, ok := data.(*imageio.Frame); ok {
			mw.canvas.SetImage(frame.Image)
			mw.canvas.SetFitToWindow(true)
			mw.SetTitle(i18n.T("app.title") + " - " + filepath.Base(frame.Path))
			mw.updateStatus("Loaded " + filepath.Base(frame.Path))
		}
	})
	mw.session.On(session.EventMeasurementsChanged, func(interface{}) {
		mw.updateOverlays()
	})
	mw.session.On(session.EventGroupsChanged, func(interface{}) {
		mw.updateOverlays()
	})
	mw.session.On(session.EventCalibrationChanged, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("%s: %.4f %s/px", i18n.T("scale.factor"),
			mw.session.Calibration.FactorInDisplay(),
			mw.session.Calibration.DisplayUnit()))
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// updateOverlays rebuilds the measurement and group overlays.
func (mw *MainWindow) updateOverlays() {
	cal := mw.session.Calibration

	lines := &canvas.Overlay{Color: colorutil.Green}
	for _, m := range mw.session.Store.All() {
		label := ""
		if cal.Calibrated() {
			label = fmt.Sprintf("%.2f %s", cal.ToDisplay(m.Physical), cal.DisplayUnit())
		}
		lines.Lines = append(lines.Lines, canvas.OverlayLine{
			X1: m.P1.X, Y1: m.P1.Y, X2: m.P2.X, Y2: m.P2.Y, Label: label,
		})
	}
	mw.canvas.SetOverlay("measurements", lines)

	rects := &canvas.Overlay{Color: colorutil.Cyan}
	for _, g := range mw.session.Groups.All() {
		rects.Rects = append(rects.Rects, canvas.OverlayRect{
			X: g.Bounds.X, Y: g.Bounds.Y,
			Width: g.Bounds.Width, Height: g.Bounds.Height,
			Label: g.Label,
		})
	}
	mw.canvas.SetOverlay("groups", rects)
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if !imageio.IsSupported(path) {
			dialog.ShowError(fmt.Errorf("%s: %s", i18n.T("error.load"), path), mw.Window)
			return
		}
		if err := mw.session.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastImageDir, filepath.Dir(path))
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(imageio.SupportedExtensions()))
	if dir := mw.listableDir(mw.prefs.String(prefs.KeyLastImageDir)); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

func (mw *MainWindow) onExportCSV() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if !strings.HasSuffix(strings.ToLower(path), ".csv") {
			path += ".csv"
		}
		if err := mw.session.ExportCSVFile(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastSaveDir, filepath.Dir(path))
		mw.updateStatus(i18n.T("export.done") + ": " + path)
	}, mw.Window)

	fd.SetFileName("measurements.csv")
	if dir := mw.listableDir(mw.prefs.String(prefs.KeyLastSaveDir)); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if err := mw.session.Undo(); err != nil {
		mw.updateStatus(i18n.T("error.nothing_undo"))
	}
}

func (mw *MainWindow) onClear() {
	dialog.ShowConfirm(i18n.T("menu.clear"), i18n.T("menu.clear")+"?", func(ok bool) {
		if ok {
			mw.session.ClearMeasurements()
		}
	}, mw.Window)
}

func (mw *MainWindow) onShowHistogram() {
	bins := mw.prefs.Int(prefs.KeyHistBins, 0)
	res, err := mw.session.Fit(bins)
	if err != nil && res == nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if err != nil {
		mw.updateStatus(i18n.T("hist.nofit"))
	}
	histview.Show(mw.app, res, mw.session.Calibration.DisplayUnit().String())
}

func (mw *MainWindow) onToggleFitToWindow() {
	fit := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(fit)
	if fit {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onToggleLanguage() {
	lang := i18n.Toggle()
	if lang == i18n.Chinese {
		mw.prefs.SetString(prefs.KeyLanguage, "zh")
	} else {
		mw.prefs.SetString(prefs.KeyLanguage, "en")
	}
	dialog.ShowInformation(i18n.T("app.title"),
		"Restart to apply the language change", mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("%s %s\n\nInteractive particle size measurement for micrographs.",
			i18n.T("app.title"), version.Version),
		mw.Window)
}

func (mw *MainWindow) listableDir(path string) fyne.ListableURI {
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

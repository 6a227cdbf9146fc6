// Command nano-measure is an interactive particle size measurement tool
// for microscopy images.
package main

import (
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"nano-measure/internal/i18n"
	"nano-measure/internal/session"
	"nano-measure/internal/version"
	"nano-measure/ui/apptheme"
	"nano-measure/ui/mainwindow"
	"nano-measure/ui/prefs"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	log.Info().Str("version", version.Version).Msg("starting nano-measure")

	appPrefs := prefs.Load()
	if appPrefs.String(prefs.KeyLanguage) == "zh" {
		i18n.SetLang(i18n.Chinese)
	}

	fyneApp := app.NewWithID("io.nanomeasure.app")
	fyneApp.Settings().SetTheme(&apptheme.MeasureTheme{})

	sess := session.New(log)
	win := mainwindow.New(fyneApp, sess, appPrefs, log)

	if len(os.Args) > 1 {
		if err := sess.LoadImage(os.Args[1]); err != nil {
			log.Error().Err(err).Str("path", os.Args[1]).Msg("could not load image")
		}
	}

	win.SetOnClosed(func() {
		if err := appPrefs.Save(); err != nil {
			log.Warn().Err(err).Msg("saving preferences failed")
		}
	})

	win.ShowAndRun()
}

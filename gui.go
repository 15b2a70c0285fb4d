package main

import (
	"context"
	"image/color"
	"log/slog"

	"StanceTimer/metrics"
	"StanceTimer/notify"
	"StanceTimer/timer"
	"StanceTimer/ui"

	"fyne.io/fyne/v2/app"
)

var accent = color.NRGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 0xff}

func runGUI(ctx context.Context, opts *options) error {
	store, cfg := loadConfig(opts)

	fyneApp := app.NewWithID("io.github.stancetimer")
	fyneApp.Settings().SetTheme(ui.NewCustomTheme(accent))

	var notifier timer.Notifier = notify.NewDesktop(fyneApp)
	if opts.sound {
		notifier = notify.NewChime(notifier)
	}
	driver := timer.NewDriver(notifier, timer.WithUnit(opts.unit), timer.WithLogger(slog.Default()))
	collector := metrics.NewCollector()

	a := NewAppManager(driver, store, cfg, collector)
	defer a.Shutdown()

	w := ui.CreateMainWindow(a, fyneApp)
	a.SetView(w)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.SetOnClosed(cancel)

	events, unsubscribe := driver.Subscribe(64)
	defer unsubscribe()
	go a.pumpEvents(ctx, events)
	go a.tick(ctx)
	serveMetrics(ctx, collector, opts.metricsAddr)

	w.ShowAndRun()
	return nil
}

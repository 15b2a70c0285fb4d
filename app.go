// Package main contains the application wiring and the AppManager which
// coordinates the session driver, the config store and the presentation
// layer (the fyne window or the headless console).
//
// Maintenance notes / tips:
//   - Concurrency model: UI actions are posted to a single command-loop
//     goroutine (see `commandLoop`), which is the only caller of
//     Driver.Start/RequestAbort/RequestSkip and Store.Save. Driver events are
//     consumed by `pumpEvents` and the countdown is refreshed by `tick`.
//   - `cmdCh` is a buffered channel. EnqueueCommand drops a command if the
//     channel stays full for a short timeout rather than block the UI.
//   - `cfg` is the configuration shown on screen. It is copied into the
//     driver on start, so editing it never changes a running session.
package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"StanceTimer/config"
	"StanceTimer/control"
	"StanceTimer/metrics"
	"StanceTimer/timer"
	"StanceTimer/ui"
)

// View renders application status.
type View interface {
	Update(ui.Status)
}

// AppManager is the main application struct, holding all state.
type AppManager struct {
	driver  *timer.Driver
	store   *config.Store
	metrics *metrics.Collector
	logger  *slog.Logger

	cfgLock sync.Mutex
	cfg     timer.Config

	viewLock sync.Mutex
	view     View

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc
}

// NewAppManager creates a new application manager and starts its command
// loop.
func NewAppManager(driver *timer.Driver, store *config.Store, cfg timer.Config, collector *metrics.Collector) *AppManager {
	a := &AppManager{
		driver:  driver,
		store:   store,
		metrics: collector,
		logger:  slog.Default().With("component", "app"),
		cfg:     cfg,
	}

	a.cmdCh = make(chan control.Command, 64)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	go a.commandLoop()

	return a
}

// SetView attaches the presentation layer.
func (a *AppManager) SetView(v View) {
	a.viewLock.Lock()
	a.view = v
	a.viewLock.Unlock()
	a.refresh()
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	select {
	case a.cmdCh <- cmd:
	case <-time.After(150 * time.Millisecond):
		a.logger.Warn("command queue full, dropping command", "command", cmd.Type.String())
	}
}

func (a *AppManager) commandLoop() {
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			err := a.handle(cmd)
			if err != nil {
				a.logger.Warn("command failed", "command", cmd.Type.String(), "error", err)
			}
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

func (a *AppManager) handle(cmd control.Command) error {
	switch cmd.Type {
	case control.CmdStart:
		return a.driver.Start(a.cmdCtx, cmd.Config)
	case control.CmdStop:
		a.driver.RequestAbort()
	case control.CmdSkip:
		a.driver.RequestSkip()
	case control.CmdSaveConfig:
		if err := a.store.Save(cmd.Config); err != nil {
			return err
		}
		a.logger.Info("config saved", "path", a.store.Path())
		a.refresh()
	}
	return nil
}

// Config returns the configuration currently on screen.
func (a *AppManager) Config() timer.Config {
	a.cfgLock.Lock()
	defer a.cfgLock.Unlock()
	return a.cfg
}

// SetConfig replaces the on-screen configuration and marks it unsaved.
func (a *AppManager) SetConfig(cfg timer.Config) {
	a.cfgLock.Lock()
	a.cfg = cfg
	a.cfgLock.Unlock()
	a.store.MarkDirty()
}

// Status returns what the view should show right now. While idle the
// displayed stance follows the configured start stance.
func (a *AppManager) Status() ui.Status {
	snap := a.driver.GetSnapshot()
	s := ui.Status{
		Running: snap.State == timer.StateRunning,
		Stance:  snap.Stance,
		Saved:   a.store.Saved(),
	}
	if s.Running {
		s.Remaining = snap.Remaining(time.Now())
	} else {
		s.Stance = a.Config().StartStance
	}
	return s
}

func (a *AppManager) refresh() {
	a.viewLock.Lock()
	v := a.view
	a.viewLock.Unlock()
	if v != nil {
		v.Update(a.Status())
	}
}

// pumpEvents forwards driver events to metrics, the log and the view until
// ctx is cancelled or events is closed.
func (a *AppManager) pumpEvents(ctx context.Context, events <-chan timer.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if a.metrics != nil {
				a.metrics.Observe(ev)
			}
			switch ev.Kind {
			case timer.EventCycleFinished:
				a.logger.Info("cycle finished", "stance", ev.Stance.String(), "result", ev.Result.String())
			case timer.EventStanceChanged:
				a.logger.Info("stance changed", "stance", ev.Stance.String())
			case timer.EventSessionStarted, timer.EventSessionStopped:
				a.logger.Info(ev.Kind.String(), "stance", ev.Stance.String())
			}
			a.refresh()
		}
	}
}

func (a *AppManager) tick(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.driver.State() == timer.StateRunning {
				a.refresh()
			}
		}
	}
}

// Shutdown stops the running session and the command loop.
func (a *AppManager) Shutdown() {
	a.driver.RequestAbort()
	if a.cmdCancel != nil {
		a.cmdCancel()
	}
}

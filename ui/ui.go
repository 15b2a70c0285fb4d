package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"StanceTimer/control"
	"StanceTimer/i18n"
	"StanceTimer/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	WindowWidth  = 420
	WindowHeight = 360

	replyTimeout = 200 * time.Millisecond
)

// App is what the window needs from the application.
type App interface {
	EnqueueCommand(cmd control.Command)
	Config() timer.Config
	SetConfig(timer.Config)
	Status() Status
}

// Status is everything the window renders about the session.
type Status struct {
	Running   bool
	Stance    timer.Stance
	Remaining time.Duration
	Saved     bool
}

// MainWindow holds the config form and the session controls.
type MainWindow struct {
	fyne.Window

	sitEntry    *widget.Entry
	standEntry  *widget.Entry
	toastEntry  *widget.Entry
	stanceRadio *widget.RadioGroup

	saveButton  *widget.Button
	startButton *widget.Button
	stopButton  *widget.Button
	skipButton  *widget.Button

	savedLabel     *widget.Label
	stanceLabel    *widget.Label
	remainingLabel *widget.Label
}

// send posts cmd and waits briefly for the command loop to reply.
func send(a App, cmd control.Command) error {
	reply := make(chan error, 1)
	cmd.Reply = reply
	a.EnqueueCommand(cmd)
	select {
	case err := <-reply:
		return err
	case <-time.After(replyTimeout):
		return nil
	}
}

// parsePositive accepts whole numbers greater than zero.
func parsePositive(input string) (int, error) {
	val, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || val <= 0 {
		return 0, fmt.Errorf("invalid value %q", input)
	}
	return val, nil
}

func stanceLabel(s timer.Stance) string {
	return i18n.T(s.String())
}

func newMinutesEntry(value int, apply func(int)) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(value))
	e.Validator = func(s string) error {
		_, err := parsePositive(s)
		return err
	}
	e.OnChanged = func(s string) {
		if v, err := parsePositive(s); err == nil {
			apply(v)
		}
	}
	return e
}

// CreateMainWindow builds the window and wires its widgets to a.
func CreateMainWindow(a App, fyneApp fyne.App) *MainWindow {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "StanceTimer"
	}
	w := &MainWindow{Window: fyneApp.NewWindow(title)}
	cfg := a.Config()

	update := func(mutate func(*timer.Config)) {
		c := a.Config()
		mutate(&c)
		a.SetConfig(c)
		w.Update(a.Status())
	}

	w.sitEntry = newMinutesEntry(cfg.SitMinutes, func(v int) {
		update(func(c *timer.Config) { c.SitMinutes = v })
	})
	w.standEntry = newMinutesEntry(cfg.StandMinutes, func(v int) {
		update(func(c *timer.Config) { c.StandMinutes = v })
	})
	w.toastEntry = newMinutesEntry(cfg.ToastDuration, func(v int) {
		update(func(c *timer.Config) { c.ToastDuration = v })
	})

	sitting, standing := stanceLabel(timer.Sitting), stanceLabel(timer.Standing)
	w.stanceRadio = widget.NewRadioGroup([]string{sitting, standing}, nil)
	w.stanceRadio.Horizontal = true
	w.stanceRadio.Required = true
	w.stanceRadio.SetSelected(stanceLabel(cfg.StartStance))
	w.stanceRadio.OnChanged = func(selected string) {
		s := timer.Sitting
		if selected == standing {
			s = timer.Standing
		}
		update(func(c *timer.Config) { c.StartStance = s })
	}

	w.savedLabel = widget.NewLabel("")
	w.saveButton = widget.NewButtonWithIcon(i18n.T("Save"), theme.DocumentSaveIcon(), func() {
		if err := send(a, control.Command{Type: control.CmdSaveConfig, Config: a.Config()}); err != nil {
			dialog.ShowError(err, w)
		}
		w.Update(a.Status())
	})

	form := widget.NewForm(
		widget.NewFormItem(i18n.T("Sitting time (min)"), w.sitEntry),
		widget.NewFormItem(i18n.T("Standing time (min)"), w.standEntry),
		widget.NewFormItem(i18n.T("Notification time (s)"), w.toastEntry),
		widget.NewFormItem(i18n.T("Start stance"), w.stanceRadio),
	)

	w.startButton = widget.NewButtonWithIcon(i18n.T("Start"), theme.MediaPlayIcon(), func() {
		if err := send(a, control.Command{Type: control.CmdStart, Config: a.Config()}); err != nil {
			dialog.ShowError(err, w)
		}
		w.Update(a.Status())
	})
	w.stopButton = widget.NewButtonWithIcon(i18n.T("Stop"), theme.MediaStopIcon(), func() {
		_ = send(a, control.Command{Type: control.CmdStop})
	})
	w.skipButton = widget.NewButtonWithIcon(i18n.T("Switch stance"), theme.MediaSkipNextIcon(), func() {
		_ = send(a, control.Command{Type: control.CmdSkip})
	})

	w.stanceLabel = widget.NewLabel("")
	w.stanceLabel.TextStyle.Bold = true
	w.remainingLabel = widget.NewLabel("--:--")
	w.remainingLabel.TextStyle.Monospace = true

	saveRow := container.NewHBox(layout.NewSpacer(), w.savedLabel, w.saveButton)
	controls := container.NewHBox(layout.NewSpacer(), w.startButton, w.stopButton, w.skipButton, layout.NewSpacer())
	status := container.NewHBox(layout.NewSpacer(), w.stanceLabel, w.remainingLabel, layout.NewSpacer())

	w.SetContent(container.NewVBox(
		form,
		saveRow,
		widget.NewSeparator(),
		status,
		controls,
	))
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	w.Update(a.Status())
	return w
}

// Update renders s. It is safe to call from any goroutine.
func (w *MainWindow) Update(s Status) {
	fyne.Do(func() {
		if s.Saved {
			w.savedLabel.SetText(i18n.T("Saved"))
		} else {
			w.savedLabel.SetText(i18n.T("Unsaved changes"))
		}

		w.stanceLabel.SetText(stanceLabel(s.Stance))
		if s.Running {
			w.remainingLabel.SetText(timer.FormatTime(s.Remaining))
			w.startButton.Disable()
			w.stopButton.Enable()
			w.skipButton.Enable()
		} else {
			w.remainingLabel.SetText(i18n.T("Not running"))
			w.startButton.Enable()
			w.stopButton.Disable()
			w.skipButton.Disable()
		}
	})
}

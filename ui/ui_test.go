package ui

import (
	"errors"
	"sync"
	"testing"
	"time"

	"StanceTimer/control"
	"StanceTimer/i18n"
	"StanceTimer/timer"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	mu       sync.Mutex
	cfg      timer.Config
	status   Status
	commands []control.Command
	replyErr error
}

func (f *fakeApp) EnqueueCommand(cmd control.Command) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	err := f.replyErr
	f.mu.Unlock()
	if cmd.Reply != nil {
		cmd.Reply <- err
	}
}

func (f *fakeApp) Config() timer.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

func (f *fakeApp) SetConfig(c timer.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = c
	f.status.Saved = false
}

func (f *fakeApp) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeApp) Commands() []control.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]control.Command(nil), f.commands...)
}

func newTestWindow(t *testing.T) (*MainWindow, *fakeApp) {
	t.Helper()
	i18n.SetLang("en")
	app := test.NewApp()
	t.Cleanup(app.Quit)

	fa := &fakeApp{
		cfg:    timer.Config{SitMinutes: 45, StandMinutes: 15, StartStance: timer.Sitting, ToastDuration: 7},
		status: Status{Stance: timer.Sitting, Saved: true},
	}
	return CreateMainWindow(fa, app), fa
}

func TestParsePositive(t *testing.T) {
	v, err := parsePositive(" 30 ")
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	for _, in := range []string{"", "0", "-5", "abc", "1.5"} {
		_, err := parsePositive(in)
		assert.Error(t, err, in)
	}
}

func TestEntriesUpdateConfig(t *testing.T) {
	w, fa := newTestWindow(t)

	w.sitEntry.SetText("")
	test.Type(w.sitEntry, "30")
	assert.Equal(t, 30, fa.Config().SitMinutes)

	// Invalid input keeps the last valid value.
	w.standEntry.SetText("abc")
	assert.Equal(t, 15, fa.Config().StandMinutes)

	w.stanceRadio.SetSelected("Standing")
	assert.Equal(t, timer.Standing, fa.Config().StartStance)
	assert.Equal(t, "Unsaved changes", w.savedLabel.Text)
}

func TestButtonsSendCommands(t *testing.T) {
	w, fa := newTestWindow(t)

	test.Tap(w.startButton)
	fa.mu.Lock()
	fa.status.Running = true
	fa.mu.Unlock()
	w.Update(fa.Status())

	test.Tap(w.skipButton)
	test.Tap(w.stopButton)
	test.Tap(w.saveButton)

	cmds := fa.Commands()
	require.Len(t, cmds, 4)
	assert.Equal(t, control.CmdStart, cmds[0].Type)
	assert.Equal(t, 45, cmds[0].Config.SitMinutes)
	assert.Equal(t, control.CmdSkip, cmds[1].Type)
	assert.Equal(t, control.CmdStop, cmds[2].Type)
	assert.Equal(t, control.CmdSaveConfig, cmds[3].Type)
}

func TestUpdateRendersStatus(t *testing.T) {
	w, _ := newTestWindow(t)

	w.Update(Status{Running: true, Stance: timer.Standing, Remaining: 14*time.Minute + 30*time.Second, Saved: true})
	assert.Equal(t, "Standing", w.stanceLabel.Text)
	assert.Equal(t, "14:30", w.remainingLabel.Text)
	assert.True(t, w.startButton.Disabled())
	assert.False(t, w.skipButton.Disabled())
	assert.Equal(t, "Saved", w.savedLabel.Text)

	w.Update(Status{Stance: timer.Sitting})
	assert.Equal(t, "Not running", w.remainingLabel.Text)
	assert.False(t, w.startButton.Disabled())
	assert.True(t, w.stopButton.Disabled())
}

func TestStartErrorDoesNotPanic(t *testing.T) {
	w, fa := newTestWindow(t)
	fa.replyErr = errors.New("config invalid")

	test.Tap(w.startButton)
	assert.Len(t, fa.Commands(), 1)
}

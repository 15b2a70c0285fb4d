package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"StanceTimer/i18n"
	"StanceTimer/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runCLI(t *testing.T, in io.Reader, args ...string) (chan error, *syncBuffer) {
	t.Helper()
	i18n.SetLang("en")
	out := &syncBuffer{}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)

	errCh := make(chan error, 1)
	go func() { errCh <- cmd.Execute() }()
	return errCh, out
}

func TestRunHeadlessSkipAndStop(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	inR, inW := io.Pipe()
	defer inW.Close()

	errCh, out := runCLI(t, inR, "run",
		"--config", cfgPath, "--sit", "1", "--stand", "60", "--start", "sitting",
		"--unit", "20ms", "--desktop=false", "--sound=false")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Please stand up.")
	}, 2*time.Second, 5*time.Millisecond)

	// The standing cycle is 1.2s long; a skip must end it well before that.
	_, err := io.WriteString(inW, "s\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "Please sit down.") >= 2
	}, 900*time.Millisecond, 5*time.Millisecond)

	_, err = io.WriteString(inW, "q\n")
	require.NoError(t, err)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after stop")
	}

	lines := out.String()
	assert.Contains(t, lines, "Session starting. Please sit down. Next reminder in: 1 min.")
	assert.Contains(t, lines, "Please stand up. Next reminder in: 60 min.")
	assert.True(t, strings.HasSuffix(lines, "Session stopped.\n"))
}

func TestRunHeadlessRejectsInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	errCh, out := runCLI(t, strings.NewReader(""), "run",
		"--config", cfgPath, "--sit", "0", "--desktop=false", "--sound=false")

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, timer.ErrConfigInvalid)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return")
	}
	assert.Empty(t, out.String())
}

func TestRunHeadlessRejectsUnknownStance(t *testing.T) {
	errCh, _ := runCLI(t, strings.NewReader(""), "run",
		"--config", filepath.Join(t.TempDir(), "c.toml"), "--start", "lying", "--desktop=false", "--sound=false")

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, timer.ErrConfigInvalid)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRunHeadlessUsesConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sit_time = 3\nstand_time = 2\nstart_stance = \"Standing\"\ntoast_duration = 4\n"), 0644))

	inR, inW := io.Pipe()
	defer inW.Close()
	errCh, out := runCLI(t, inR, "run", "--config", cfgPath, "--unit", "1s", "--desktop=false", "--sound=false")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Session starting. Please stand up. Next reminder in: 2 min.")
	}, 2*time.Second, 5*time.Millisecond)

	_, err := io.WriteString(inW, "stop\n")
	require.NoError(t, err)
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after stop")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	store, cfg := loadConfig(&options{configPath: filepath.Join(t.TempDir(), "none.toml")})
	assert.Equal(t, timer.Config{SitMinutes: 45, StandMinutes: 15, StartStance: timer.Sitting, ToastDuration: 7}, cfg)
	assert.False(t, store.Saved())
}

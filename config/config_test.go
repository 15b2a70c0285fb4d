package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"StanceTimer/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = timer.Config{SitMinutes: 45, StandMinutes: 15, StartStance: timer.Sitting, ToastDuration: 7}

func TestLoadDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		DefaultsFile: {Data: []byte("sit_time = 45\nstand_time = 15\nstart_stance = \"Sitting\"\ntoast_duration = 7\n")},
	}

	cfg, err := LoadDefaults(fsys)
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
}

func TestLoadDefaultsErrors(t *testing.T) {
	_, err := LoadDefaults(fstest.MapFS{})
	assert.ErrorIs(t, err, ErrRead)

	_, err = LoadDefaults(fstest.MapFS{DefaultsFile: {Data: []byte("sit_time = [")}})
	assert.ErrorIs(t, err, ErrParse)
}

func TestStoreMissingFileUsesDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.toml"), defaults)

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
	assert.False(t, s.Saved())
}

func TestStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	s := NewStore(path, defaults)

	want := timer.Config{SitMinutes: 30, StandMinutes: 10, StartStance: timer.Standing, ToastDuration: 5}
	require.NoError(t, s.Save(want))
	assert.True(t, s.Saved())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `start_stance = "Standing"`)
	assert.Contains(t, string(data), "sit_time = 30")

	got, err := NewStore(path, defaults).Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	s.MarkDirty()
	assert.False(t, s.Saved())
}

func TestStorePartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("stand_time = 20\n"), 0644))

	cfg, err := NewStore(path, defaults).Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.StandMinutes)
	assert.Equal(t, 45, cfg.SitMinutes)
}

func TestStoreParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`start_stance = "Lying"`), 0644))

	cfg, err := NewStore(path, defaults).Load()
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, defaults, cfg)
}

func TestStoreDefaultPath(t *testing.T) {
	assert.Equal(t, FileName, NewStore("", defaults).Path())
}

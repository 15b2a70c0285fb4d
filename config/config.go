// Package config loads and saves the reminder settings as a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"StanceTimer/timer"

	"github.com/BurntSushi/toml"
)

// DefaultsFile is the embedded default configuration.
const DefaultsFile = "assets/default_config.toml"

// FileName is the config file name used when no path is given.
const FileName = "stancetimer_config.toml"

var (
	ErrRead  = errors.New("failed to read the config file")
	ErrWrite = errors.New("failed to write the config file")
	ErrParse = errors.New("failed to parse the config file")
)

// ContentReader reads files from the embedded assets.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// LoadDefaults decodes the embedded default configuration.
func LoadDefaults(reader ContentReader) (timer.Config, error) {
	var cfg timer.Config
	data, err := reader.ReadFile(DefaultsFile)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return cfg, nil
}

// Store persists a timer.Config at a fixed path.
type Store struct {
	path     string
	defaults timer.Config

	mu    sync.Mutex
	saved bool
}

// NewStore returns a store for path; an empty path means FileName in the
// working directory.
func NewStore(path string, defaults timer.Config) *Store {
	if path == "" {
		path = FileName
	}
	return &Store{path: path, defaults: defaults}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Saved reports whether the last Load or Save matched the file on disk.
func (s *Store) Saved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// MarkDirty records that the config on screen differs from the file.
func (s *Store) MarkDirty() {
	s.mu.Lock()
	s.saved = false
	s.mu.Unlock()
}

// Load reads the config file. A missing file yields the defaults and no
// error; any other failure yields the defaults and ErrRead or ErrParse.
func (s *Store) Load() (timer.Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.defaults, nil
	}
	if err != nil {
		return s.defaults, fmt.Errorf("%w: %v", ErrRead, err)
	}

	cfg := s.defaults
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return s.defaults, fmt.Errorf("%w: %s: %v", ErrParse, s.path, err)
	}

	s.mu.Lock()
	s.saved = true
	s.mu.Unlock()
	return cfg, nil
}

// Save writes cfg to the config file.
func (s *Store) Save(cfg timer.Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		s.MarkDirty()
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	s.mu.Lock()
	s.saved = true
	s.mu.Unlock()
	return nil
}

package timer

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// MaxMinutes is the longest stance interval a time.Duration can hold at
	// the default one-minute unit.
	MaxMinutes = int(math.MaxInt64 / int64(time.Minute))
	// MaxToastSeconds is the longest notification display time.
	MaxToastSeconds = int(math.MaxInt64 / int64(time.Second))
)

var (
	// ErrConfigInvalid is returned by Start when a duration is not positive
	// or too long to represent.
	ErrConfigInvalid = errors.New("config invalid")
	// ErrSessionRunning is returned by Start while a session is active.
	ErrSessionRunning = errors.New("session already running")
)

// Config is the session configuration. It is copied on Start, so later
// edits never reach a running session.
type Config struct {
	SitMinutes    int    `toml:"sit_time"`
	StandMinutes  int    `toml:"stand_time"`
	StartStance   Stance `toml:"start_stance"`
	ToastDuration int    `toml:"toast_duration"` // seconds
}

// Validate rejects non-positive or overlong durations with ErrConfigInvalid.
func (c Config) Validate() error {
	switch {
	case c.SitMinutes <= 0:
		return fmt.Errorf("%w: sit time must be positive, got %d", ErrConfigInvalid, c.SitMinutes)
	case c.SitMinutes > MaxMinutes:
		return fmt.Errorf("%w: sit time must be at most %d, got %d", ErrConfigInvalid, MaxMinutes, c.SitMinutes)
	case c.StandMinutes <= 0:
		return fmt.Errorf("%w: stand time must be positive, got %d", ErrConfigInvalid, c.StandMinutes)
	case c.StandMinutes > MaxMinutes:
		return fmt.Errorf("%w: stand time must be at most %d, got %d", ErrConfigInvalid, MaxMinutes, c.StandMinutes)
	case c.ToastDuration <= 0:
		return fmt.Errorf("%w: toast duration must be positive, got %d", ErrConfigInvalid, c.ToastDuration)
	case c.ToastDuration > MaxToastSeconds:
		return fmt.Errorf("%w: toast duration must be at most %d, got %d", ErrConfigInvalid, MaxToastSeconds, c.ToastDuration)
	case c.StartStance != Sitting && c.StartStance != Standing:
		return fmt.Errorf("%w: unknown start stance %d", ErrConfigInvalid, int(c.StartStance))
	}
	return nil
}

// MinutesFor returns the configured minutes for a stance.
func (c Config) MinutesFor(s Stance) int {
	if s == Standing {
		return c.StandMinutes
	}
	return c.SitMinutes
}

// fitsUnit reports whether both stance intervals can be scaled by unit
// without overflowing time.Duration.
func (c Config) fitsUnit(unit time.Duration) error {
	if unit <= 0 {
		return nil
	}
	limit := math.MaxInt64 / int64(unit)
	for _, m := range []int{c.SitMinutes, c.StandMinutes} {
		if int64(m) > limit {
			return fmt.Errorf("%w: %d minutes of %s overflows", ErrConfigInvalid, m, unit)
		}
	}
	return nil
}

// ToastDisplay is the notification display time.
func (c Config) ToastDisplay() time.Duration {
	return time.Duration(c.ToastDuration) * time.Second
}

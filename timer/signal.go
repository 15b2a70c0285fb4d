package timer

import (
	"context"
	"fmt"
	"sync"
)

// Signal is the pending control intent for the running cycle.
type Signal int

const (
	SignalRun Signal = iota
	SignalAbort
	SignalSkip
)

func (s Signal) String() string {
	switch s {
	case SignalRun:
		return "run"
	case SignalAbort:
		return "abort"
	case SignalSkip:
		return "skip"
	}
	return fmt.Sprintf("Signal(%d)", int(s))
}

// SignalRegister holds the current control signal. Writes are
// last-write-wins; there is no queue. Every write wakes all goroutines
// blocked in WaitFor so they can re-check the value.
type SignalRegister struct {
	mu      sync.Mutex
	value   Signal
	changed chan struct{}
}

// NewSignalRegister returns a register holding SignalRun.
func NewSignalRegister() *SignalRegister {
	return &SignalRegister{changed: make(chan struct{})}
}

// Set overwrites the current signal.
func (r *SignalRegister) Set(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = s
	close(r.changed)
	r.changed = make(chan struct{})
}

// Get returns the current signal.
func (r *SignalRegister) Get() Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Reset is Set(SignalRun).
func (r *SignalRegister) Reset() {
	r.Set(SignalRun)
}

// Consume resets the register to SignalRun only if it still holds s.
// It reports whether the swap happened. A newer write (for example an
// abort issued right after a skip) is left in place.
func (r *SignalRegister) Consume(s Signal) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.value != s {
		return false
	}
	r.value = SignalRun
	close(r.changed)
	r.changed = make(chan struct{})
	return true
}

// WaitFor blocks until the register holds want or ctx is done.
func (r *SignalRegister) WaitFor(ctx context.Context, want Signal) error {
	for {
		r.mu.Lock()
		if r.value == want {
			r.mu.Unlock()
			return nil
		}
		ch := r.changed
		r.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

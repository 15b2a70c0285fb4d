// Package timer contains the posture reminder engine: the signal register,
// the cycle controller and the session driver state machine.
//
// Maintenance notes:
//   - The SignalRegister is the only state shared between the caller (UI or
//     CLI) and the running cycle. Everything else the session goroutine
//     touches is either copied on Start or guarded by Driver.mu.
//   - A session runs on exactly one goroutine and cycles are strictly
//     sequential; cycle N+1 starts only after RunCycle for cycle N has
//     returned and joined its waiters.
//   - Events are delivered to subscribers without blocking the session. A
//     subscriber that falls behind by more than its buffer loses events and
//     a warning is logged.
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the session driver state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Option configures a Driver.
type Option func(*Driver)

// WithUnit sets the length of one configured "minute". Defaults to
// time.Minute.
func WithUnit(unit time.Duration) Option {
	return func(d *Driver) { d.unit = unit }
}

// WithLogger sets the logger used for notifier failures and dropped events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// Driver runs alternating stance sessions, one at a time.
type Driver struct {
	notifier Notifier
	unit     time.Duration
	logger   *slog.Logger
	signals  *SignalRegister

	mu         sync.RWMutex
	state      State
	stance     Stance
	cfg        Config
	cycleStart time.Time
	cycleLen   time.Duration
	done       chan struct{}

	subsMu sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewDriver creates an idle driver that sends reminders through n.
func NewDriver(n Notifier, opts ...Option) *Driver {
	d := &Driver{
		notifier: n,
		unit:     time.Minute,
		logger:   slog.Default(),
		signals:  NewSignalRegister(),
		stance:   Sitting,
		subs:     make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Signals exposes the driver's signal register.
func (d *Driver) Signals() *SignalRegister {
	return d.signals
}

// Start validates cfg and begins a session at cfg.StartStance. The session
// runs until RequestAbort is called or ctx is cancelled.
func (d *Driver) Start(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.fitsUnit(d.unit); err != nil {
		return err
	}

	d.mu.Lock()
	if d.state == StateRunning {
		d.mu.Unlock()
		return ErrSessionRunning
	}
	d.cfg = cfg
	d.stance = cfg.StartStance
	d.state = StateRunning
	d.signals.Reset()
	done := make(chan struct{})
	d.done = done
	d.emit(Event{Kind: EventSessionStarted, Stance: cfg.StartStance})
	d.mu.Unlock()

	go d.run(ctx, cfg, done)
	return nil
}

// RequestAbort asks the running session to stop. It has no effect unless a
// session is running.
func (d *Driver) RequestAbort() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != StateRunning {
		return
	}
	d.signals.Set(SignalAbort)
}

// RequestSkip ends the current cycle early; the session continues with the
// other stance. It has no effect unless a session is running.
func (d *Driver) RequestSkip() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != StateRunning {
		return
	}
	d.signals.Set(SignalSkip)
}

// State returns the current driver state.
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Stance returns the current stance. While idle or stopped this is the
// start stance of the last session.
func (d *Driver) Stance() Stance {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stance
}

// Done returns a channel closed when the current (or last) session has
// finished. It returns nil if no session was ever started.
func (d *Driver) Done() <-chan struct{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.done
}

// Snapshot is a consistent view of the driver for presentation.
type Snapshot struct {
	State      State
	Stance     Stance
	Config     Config
	CycleStart time.Time
	CycleLen   time.Duration
}

// Remaining returns the time left in the running cycle at now.
func (s Snapshot) Remaining(now time.Time) time.Duration {
	if s.State != StateRunning || s.CycleLen == 0 {
		return 0
	}
	left := s.CycleLen - now.Sub(s.CycleStart)
	if left < 0 {
		return 0
	}
	return left
}

// GetSnapshot returns the driver state under a single lock.
func (d *Driver) GetSnapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		State:      d.state,
		Stance:     d.stance,
		Config:     d.cfg,
		CycleStart: d.cycleStart,
		CycleLen:   d.cycleLen,
	}
}

func (d *Driver) run(ctx context.Context, cfg Config, done chan struct{}) {
	defer close(done)

	// Notifier failures are reported as they happen and never end the cycle.
	notifier := NotifierFunc(func(ctx context.Context, n Notification) error {
		err := d.notifier.Notify(ctx, n)
		// The cycle timer starts once the reminder is out, so the countdown
		// is measured from here.
		d.mu.Lock()
		d.cycleStart = time.Now()
		d.mu.Unlock()
		if err != nil {
			d.logger.Warn("notification failed", "stance", n.Stance.String(), "error", err)
			d.emit(Event{Kind: EventNotifyFailed, Stance: n.Stance, Err: err})
		}
		return err
	})

	stance := cfg.StartStance
	initial := true
	for {
		minutes := cfg.MinutesFor(stance)
		c := Cycle{
			Stance:   stance,
			Duration: time.Duration(minutes) * d.unit,
			Minutes:  minutes,
			Initial:  initial,
			Display:  cfg.ToastDisplay(),
		}

		d.mu.Lock()
		d.cycleStart = time.Now()
		d.cycleLen = c.Duration
		d.mu.Unlock()
		d.emit(Event{Kind: EventCycleStarted, Stance: stance, Duration: c.Duration})

		res, _ := RunCycle(ctx, d.signals, notifier, c)
		d.emit(Event{Kind: EventCycleFinished, Stance: stance, Result: res})

		if res == Aborted {
			d.mu.Lock()
			d.stance = cfg.StartStance
			d.state = StateStopped
			d.cycleLen = 0
			// Emitted under the lock so it cannot trail a newer SessionStarted.
			d.emit(Event{Kind: EventSessionStopped, Stance: cfg.StartStance})
			d.mu.Unlock()
			return
		}
		if res == Skipped {
			d.signals.Consume(SignalSkip)
		}

		stance = stance.Toggle()
		initial = false
		d.mu.Lock()
		d.stance = stance
		d.mu.Unlock()
		d.emit(Event{Kind: EventStanceChanged, Stance: stance})
	}
}

package timer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// CycleResult is how a single cycle ended.
type CycleResult int

const (
	Completed CycleResult = iota
	Aborted
	Skipped
)

func (r CycleResult) String() string {
	switch r {
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("CycleResult(%d)", int(r))
}

// Notification is the reminder sent at the start of every cycle.
type Notification struct {
	Stance        Stance
	Initial       bool
	NextInMinutes int
	Display       time.Duration
}

// TitleParts are the untranslated sentences of the reminder title.
func (n Notification) TitleParts() []string {
	if n.Initial {
		return []string{"Session starting.", n.Stance.Prompt()}
	}
	return []string{n.Stance.Prompt()}
}

// Title is the untranslated reminder title.
func (n Notification) Title() string {
	return strings.Join(n.TitleParts(), " ")
}

// Notifier displays a reminder. Implementations must return once the
// notification has been handed to the system; errors are not fatal to the
// cycle.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Cycle describes one stance interval.
type Cycle struct {
	Stance   Stance
	Duration time.Duration
	Minutes  int
	Initial  bool
	Display  time.Duration
}

// RunCycle notifies once and then waits for the cycle duration to elapse,
// an abort, or a skip, whichever comes first. Cancelling ctx ends the cycle
// as Aborted. A notifier failure is returned alongside the result; it never
// changes the result.
func RunCycle(ctx context.Context, signals *SignalRegister, notifier Notifier, c Cycle) (CycleResult, error) {
	notifyErr := notifier.Notify(ctx, Notification{
		Stance:        c.Stance,
		Initial:       c.Initial,
		NextInMinutes: c.Minutes,
		Display:       c.Display,
	})

	raceCtx, cancel := context.WithCancel(ctx)
	results := make(chan CycleResult, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		t := time.NewTimer(c.Duration)
		defer t.Stop()
		select {
		case <-t.C:
			results <- Completed
		case <-raceCtx.Done():
		}
	}()
	go func() {
		defer wg.Done()
		if signals.WaitFor(raceCtx, SignalAbort) == nil {
			results <- Aborted
		}
	}()
	go func() {
		defer wg.Done()
		if signals.WaitFor(raceCtx, SignalSkip) == nil {
			results <- Skipped
		}
	}()

	var res CycleResult
	select {
	case res = <-results:
	case <-ctx.Done():
		res = Aborted
	}
	cancel()
	wg.Wait()

	return res, notifyErr
}

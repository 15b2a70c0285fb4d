// Package notify contains the reminder backends used by the session driver:
// freedesktop notifications over D-Bus, fyne desktop notifications, a
// console writer and an audible chime.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"StanceTimer/i18n"
	"StanceTimer/timer"
)

// Error wraps a failure of a single notification backend.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notify via %s: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Text returns the localized title and body for a reminder.
func Text(n timer.Notification) (string, string) {
	parts := n.TitleParts()
	for i, p := range parts {
		parts[i] = i18n.T(p)
	}
	title := strings.Join(parts, " ")
	body := i18n.T("It's time to change your stance.") + "\n" +
		fmt.Sprintf(i18n.T("Next reminder in: %d min."), n.NextInMinutes)
	return title, body
}

// Multi sends every reminder to all notifiers and joins their errors.
type Multi []timer.Notifier

// Notify calls each notifier in order.
func (m Multi) Notify(ctx context.Context, n timer.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Console writes reminders as single lines, for the headless runner.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, now: time.Now}
}

func (c *Console) Notify(_ context.Context, n timer.Notification) error {
	title, _ := Text(n)
	next := fmt.Sprintf(i18n.T("Next reminder in: %d min."), n.NextInMinutes)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "[%s] %s %s\n", c.now().Format("15:04"), title, next); err != nil {
		return &Error{Backend: "console", Err: err}
	}
	return nil
}

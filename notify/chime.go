package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"StanceTimer/timer"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Chime plays a short two-tone sound after forwarding the reminder. If the
// speaker cannot be initialised the chime is silently disabled.
type Chime struct {
	next   timer.Notifier
	buffer *beep.Buffer
	mu     sync.Mutex
}

// NewChime wraps next with an audible reminder.
func NewChime(next timer.Notifier) *Chime {
	c := &Chime{next: next}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		slog.Warn("audio disabled: failed to initialize speaker", "error", err)
		return c
	}
	buf, err := chimeBuffer(sampleRate)
	if err != nil {
		slog.Warn("audio disabled: failed to build chime", "error", err)
		return c
	}
	c.buffer = buf
	return c
}

func chimeBuffer(sr beep.SampleRate) (*beep.Buffer, error) {
	high, err := generators.SineTone(sr, 880)
	if err != nil {
		return nil, err
	}
	low, err := generators.SineTone(sr, 660)
	if err != nil {
		return nil, err
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buf.Append(beep.Seq(
		beep.Take(sr.N(150*time.Millisecond), high),
		beep.Take(sr.N(250*time.Millisecond), low),
	))
	return buf, nil
}

// Notify forwards to the wrapped notifier and then plays the chime. The
// chime is played even when the wrapped notifier fails.
func (c *Chime) Notify(ctx context.Context, n timer.Notification) error {
	err := c.next.Notify(ctx, n)
	if c.buffer != nil {
		c.mu.Lock()
		speaker.Play(c.buffer.Streamer(0, c.buffer.Len()))
		c.mu.Unlock()
	}
	return err
}

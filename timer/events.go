package timer

import "time"

// EventKind identifies a session event.
type EventKind int

const (
	EventSessionStarted EventKind = iota
	EventCycleStarted
	EventCycleFinished
	EventStanceChanged
	EventNotifyFailed
	EventSessionStopped
)

func (k EventKind) String() string {
	switch k {
	case EventSessionStarted:
		return "session_started"
	case EventCycleStarted:
		return "cycle_started"
	case EventCycleFinished:
		return "cycle_finished"
	case EventStanceChanged:
		return "stance_changed"
	case EventNotifyFailed:
		return "notify_failed"
	case EventSessionStopped:
		return "session_stopped"
	}
	return "unknown"
}

// Event is published by the Driver to every subscriber.
type Event struct {
	Kind     EventKind
	Stance   Stance
	Result   CycleResult   // EventCycleFinished
	Duration time.Duration // EventCycleStarted
	Err      error         // EventNotifyFailed
}

// Subscribe registers a new event listener with the given buffer size. The
// returned function removes the listener and closes the channel.
func (d *Driver) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	d.subsMu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = ch
	d.subsMu.Unlock()

	return ch, func() {
		d.subsMu.Lock()
		defer d.subsMu.Unlock()
		if c, ok := d.subs[id]; ok {
			delete(d.subs, id)
			close(c)
		}
	}
}

func (d *Driver) emit(ev Event) {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- ev:
		default:
			d.logger.Warn("event subscriber full, dropping event", "event", ev.Kind.String())
		}
	}
}

package notify

import (
	"context"
	"sync"

	"StanceTimer/timer"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDest   = "org.freedesktop.Notifications"
	dbusPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	dbusNotify = "org.freedesktop.Notifications.Notify"
)

// DBus sends freedesktop notifications on the session bus. Unlike the fyne
// backend it honours the configured display time.
type DBus struct {
	appName string
	dial    func() (*dbus.Conn, error)

	mu     sync.Mutex
	conn   *dbus.Conn
	lastID uint32
}

// NewDBus returns a notifier that connects lazily on first use.
func NewDBus(appName string) *DBus {
	return &DBus{appName: appName, dial: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() }}
}

func (d *DBus) connection() (*dbus.Conn, error) {
	if d.conn != nil && d.conn.Connected() {
		return d.conn, nil
	}
	conn, err := d.dial()
	if err != nil {
		return nil, err
	}
	d.conn = conn
	return conn, nil
}

// Notify shows the reminder, replacing the previous one if it is still on
// screen.
func (d *DBus) Notify(ctx context.Context, n timer.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	conn, err := d.connection()
	if err != nil {
		return &Error{Backend: "dbus", Err: err}
	}

	title, body := Text(n)
	hints := map[string]dbus.Variant{
		"sound-name": dbus.MakeVariant("dialog-information"),
	}
	call := conn.Object(dbusDest, dbusPath).CallWithContext(ctx, dbusNotify, 0,
		d.appName, d.lastID, "", title, body, []string{}, hints, int32(n.Display.Milliseconds()))
	if call.Err != nil {
		return &Error{Backend: "dbus", Err: call.Err}
	}
	if err := call.Store(&d.lastID); err != nil {
		return &Error{Backend: "dbus", Err: err}
	}
	return nil
}

// Close releases the bus connection.
func (d *DBus) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

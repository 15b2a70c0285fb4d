package notify

import (
	"context"

	"StanceTimer/timer"

	"fyne.io/fyne/v2"
)

// Desktop posts reminders through the fyne app. The platform decides how
// long they stay on screen.
type Desktop struct {
	app fyne.App
}

func NewDesktop(app fyne.App) *Desktop {
	return &Desktop{app: app}
}

func (d *Desktop) Notify(_ context.Context, n timer.Notification) error {
	title, body := Text(n)
	d.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}

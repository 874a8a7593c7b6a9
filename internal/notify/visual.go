package notify

import "github.com/gen2brain/beeep"

// DesktopNotifier shows alerts through the host platform's notification
// primitive. Critical alerts use the alert variant so they demand attention.
type DesktopNotifier struct{}

// Notify implements VisualNotifier.
func (DesktopNotifier) Notify(title, body string, critical bool) error {
	if critical {
		return beeep.Alert(title, body, "")
	}
	return beeep.Notify(title, body, "")
}

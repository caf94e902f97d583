// Package notify forwards streamed notifications to the operating
// system's notification surface.
package notify

import "github.com/gen2brain/beeep"

// Notifier is the platform notification surface the relay forwards to.
type Notifier interface {
	// Push displays a native notification. Implementations must treat
	// unavailable or denied notification backends as a no-op, not a
	// hard failure.
	Push(title, message, tag string) error
}

// Desktop delivers native notifications through the OS notification
// daemon (D-Bus on Linux, Notification Center on macOS, toasts on
// Windows).
type Desktop struct {
	enabled bool
}

// NewDesktop creates a desktop notifier. When enabled is false every
// Push is a no-op; the flag is checked per call so a config reload can
// flip it without reconstructing the relay.
func NewDesktop(enabled bool) *Desktop {
	beeep.AppName = "CityConnect"
	return &Desktop{enabled: enabled}
}

// Push displays a native notification carrying the event's title and
// message. The tag is unused by the desktop backend.
func (d *Desktop) Push(title, message, _ string) error {
	if !d.enabled {
		return nil
	}
	return beeep.Notify(title, message, "")
}

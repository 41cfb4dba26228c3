package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsService   = "org.freedesktop.Notifications"
	notificationsPath      = "/org/freedesktop/Notifications"
	notificationsInterface = "org.freedesktop.Notifications"
)

// show sends a desktop notification over the session bus.
func show(level Level, message string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	icon := "dialog-information"
	urgency := byte(1)
	if level == Error {
		icon = "dialog-error"
		urgency = 2
	}

	obj := conn.Object(notificationsService, dbus.ObjectPath(notificationsPath))
	call := obj.Call(notificationsInterface+".Notify", 0,
		Title,      // app_name
		uint32(0),  // replaces_id
		icon,       // app_icon
		Title,      // summary
		message,    // body
		[]string{}, // actions
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgency)},
		int32(-1), // expire_timeout
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}

//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const expireMillis = 5000

// platformSend calls org.freedesktop.Notifications.Notify on the session
// bus. Notifications are marked transient so they do not pile up in the
// notification history.
func platformSend(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{
		"transient": dbus.MakeVariant(true),
		"urgency":   dbus.MakeVariant(byte(0)),
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		appName, uint32(0), opts.IconPath, title, body, []string{}, hints, int32(expireMillis))
	return call.Err
}

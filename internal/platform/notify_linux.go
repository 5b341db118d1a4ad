//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
	notifyMethod  = "org.freedesktop.Notifications.Notify"

	// expireMS is how long the server should keep the notification up.
	expireMS = int32(5000)
)

// Notify sends a freedesktop notification over the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{}
	if opts.IconPath != "" {
		hints["image-path"] = dbus.MakeVariant(opts.IconPath)
	}
	call := conn.Object(notifyService, notifyPath).Call(notifyMethod, 0,
		opts.appName(), uint32(0), opts.IconPath, title, body,
		[]string{}, hints, expireMS)
	return call.Err
}

//go:build !linux && !darwin && !windows

package platform

// Notify is a no-op where no notification backend exists.
func Notify(title, body string, opts Options) error { return nil }

//go:build !windows && !linux

package notify

// show has no desktop surface here; the message is only logged.
func show(Level, string) error {
	return nil
}

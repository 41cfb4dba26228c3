//go:build !windows && !linux

package hotkeys

import "errors"

// NewListener returns an error: global hotkeys are not supported here.
func NewListener(*Dispatcher) (Listener, error) {
	return nil, errors.New("global hotkeys are not supported on this platform")
}

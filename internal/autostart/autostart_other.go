//go:build !windows && !linux

package autostart

import "errors"

// New reports that autostart is not supported here.
func New() (Manager, error) {
	return nil, errors.New("autostart is not supported on this platform")
}

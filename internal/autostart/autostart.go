// Package autostart starts the wallpaper with the user's session.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the registry value and desktop entry.
const AppName = "WebWallpaper"

// Manager toggles start-at-login.
type Manager interface {
	Enabled() (bool, error)
	Enable() error
	Disable() error
	// Label is the menu text, e.g. "Start with Windows".
	Label() string
}

// Command returns the command line that starts the wallpaper.
func Command() ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return []string{exe, "run"}, nil
}

// Set enables or disables m.
func Set(m Manager, enabled bool) error {
	if enabled {
		return m.Enable()
	}
	return m.Disable()
}

package autostart

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// New returns the XDG autostart manager.
func New() (Manager, error) {
	cmd, err := Command()
	if err != nil {
		return nil, err
	}
	return &DesktopEntry{
		Dir:  filepath.Join(xdg.ConfigHome, "autostart"),
		Exec: cmd,
	}, nil
}

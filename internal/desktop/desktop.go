// Package desktop restores the shell wallpaper and reports the primary
// display bounds.
package desktop

import "github.com/bryanchriswhite/WebWallpaper/internal/window"

// Desktop is the shell-facing side of the wallpaper host.
type Desktop interface {
	// RefreshWallpaper makes the shell repaint its own wallpaper and
	// invalidates host, if any.
	RefreshWallpaper(host window.Handle) error
	// PrimaryBounds returns the primary display rectangle.
	PrimaryBounds() window.Rect
}

// Static is a Desktop with fixed bounds and no shell. Refreshes are
// counted.
type Static struct {
	Bounds    window.Rect
	Refreshes []window.Handle
}

func (s *Static) RefreshWallpaper(host window.Handle) error {
	s.Refreshes = append(s.Refreshes, host)
	return nil
}

func (s *Static) PrimaryBounds() window.Rect {
	return s.Bounds
}

package desktop

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
	"github.com/bryanchriswhite/WebWallpaper/internal/x11"
)

// X11 repaints the root window background.
type X11 struct {
	x *x11.Connection
}

// NewX11 creates an X11 desktop on an open connection.
func NewX11(conn *x11.Connection) *X11 {
	return &X11{x: conn}
}

// RefreshWallpaper clears the root window and host, generating exposures
// so their owners repaint.
func (d *X11) RefreshWallpaper(host window.Handle) error {
	if err := xproto.ClearAreaChecked(d.x.Conn, true, d.x.Root, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to clear root window: %w", err)
	}
	if host != 0 && xproto.Window(host) != d.x.Root {
		// A host that is already gone is not an error here.
		if err := xproto.ClearAreaChecked(d.x.Conn, true, xproto.Window(host), 0, 0, 0, 0).Check(); err != nil {
			logger.WithComponent("desktop").Debug().Err(err).Stringer("host", host).Msg("Failed to clear host")
		}
	}
	return nil
}

// PrimaryBounds returns the default screen size.
func (d *X11) PrimaryBounds() window.Rect {
	return window.Rect{
		Width:  int(d.x.Screen.WidthInPixels),
		Height: int(d.x.Screen.HeightInPixels),
	}
}

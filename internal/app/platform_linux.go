package app

import (
	"github.com/bryanchriswhite/WebWallpaper/internal/capture"
	"github.com/bryanchriswhite/WebWallpaper/internal/desktop"
	"github.com/bryanchriswhite/WebWallpaper/internal/locator"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer/webview"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
	"github.com/bryanchriswhite/WebWallpaper/internal/x11"
)

func newPlatform() (*platform, error) {
	conn, err := x11.Connect()
	if err != nil {
		return nil, err
	}
	return &platform{
		Window:   window.NewX11(conn),
		Shell:    locator.NewX11Shell(conn),
		Desktop:  desktop.NewX11(conn),
		Resolver: webview.X11Resolver(conn),
		Capturer: capture.NewX11(conn),
		close:    conn.Close,
	}, nil
}

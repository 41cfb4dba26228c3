//go:build windows

package app

import (
	"github.com/bryanchriswhite/WebWallpaper/internal/capture"
	"github.com/bryanchriswhite/WebWallpaper/internal/desktop"
	"github.com/bryanchriswhite/WebWallpaper/internal/locator"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

func newPlatform() (*platform, error) {
	return &platform{
		Window:   window.NewWin32(),
		Shell:    locator.NewShell(),
		Desktop:  desktop.New(),
		Capturer: capture.NewWin32(),
	}, nil
}

//go:build windows

package desktop

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

// Win32 refreshes the wallpaper through SystemParametersInfo.
type Win32 struct{}

// New returns the platform desktop.
func New() Desktop {
	return Win32{}
}

// RefreshWallpaper re-applies the current wallpaper setting, which makes
// the shell repaint it over whatever the host left behind.
func (Win32) RefreshWallpaper(host window.Handle) error {
	empty, _ := windows.UTF16PtrFromString("")
	ret, _, callErr := procSystemParametersInfo.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(empty)),
		spifUpdateIniFile|spifSendChange,
	)

	desk := win.HWND(windows.GetDesktopWindow())
	win.InvalidateRect(desk, nil, true)
	win.UpdateWindow(desk)
	if host != 0 {
		win.InvalidateRect(win.HWND(host), nil, true)
		win.UpdateWindow(win.HWND(host))
	}

	if ret == 0 {
		return fmt.Errorf("SystemParametersInfo(SPI_SETDESKWALLPAPER): %w", callErr)
	}
	logger.WithComponent("desktop").Debug().Stringer("host", host).Msg("Wallpaper refreshed")
	return nil
}

// PrimaryBounds returns the primary monitor rectangle.
func (Win32) PrimaryBounds() window.Rect {
	return window.Rect{
		Width:  int(win.GetSystemMetrics(win.SM_CXSCREEN)),
		Height: int(win.GetSystemMetrics(win.SM_CYSCREEN)),
	}
}

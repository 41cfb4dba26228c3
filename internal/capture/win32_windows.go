//go:build windows

package capture

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// PW_RENDERFULLCONTENT makes PrintWindow include DirectComposition
// content, which is where WebView2 draws.
const pwRenderFullContent = 0x2

var (
	user32          = windows.NewLazySystemDLL("user32.dll")
	procPrintWindow = user32.NewProc("PrintWindow")
)

// Win32 captures windows with PrintWindow, which works while the window is
// parented under the desktop and covered by icons.
type Win32 struct{}

var _ Capturer = (*Win32)(nil)

// NewWin32 returns the Win32 capturer.
func NewWin32() *Win32 {
	return &Win32{}
}

// Name returns the capturer name
func (c *Win32) Name() string {
	return "win32"
}

// Capture implements Capturer.
func (c *Win32) Capture(h window.Handle) (*image.RGBA, error) {
	hwnd := win.HWND(h)
	if h == 0 || !windows.IsWindow(windows.HWND(h)) {
		return nil, window.NewOpError("Capture", h, window.KindInvalidHandle, nil)
	}

	var rect win.RECT
	if !win.GetClientRect(hwnd, &rect) {
		return nil, fmt.Errorf("GetClientRect: %w", windows.GetLastError())
	}
	width, height := rect.Right-rect.Left, rect.Bottom-rect.Top
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyWindow
	}

	screen := win.GetDC(0)
	defer win.ReleaseDC(0, screen)
	mem := win.CreateCompatibleDC(screen)
	defer win.DeleteDC(mem)
	bitmap := win.CreateCompatibleBitmap(screen, width, height)
	if bitmap == 0 {
		return nil, fmt.Errorf("CreateCompatibleBitmap failed")
	}
	defer win.DeleteObject(win.HGDIOBJ(bitmap))

	old := win.SelectObject(mem, win.HGDIOBJ(bitmap))
	r, _, err := procPrintWindow.Call(uintptr(hwnd), uintptr(mem), pwRenderFullContent)
	// GetDIBits needs the bitmap deselected.
	win.SelectObject(mem, old)
	if r == 0 {
		return nil, fmt.Errorf("PrintWindow: %w", err)
	}

	var bi win.BITMAPINFO
	bi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.BiWidth = width
	bi.BmiHeader.BiHeight = -height // top-down rows
	bi.BmiHeader.BiPlanes = 1
	bi.BmiHeader.BiBitCount = 32
	bi.BmiHeader.BiCompression = win.BI_RGB

	stride := int(width) * 4
	data := make([]byte, stride*int(height))
	if win.GetDIBits(mem, bitmap, 0, uint32(height), &data[0], &bi, win.DIB_RGB_COLORS) == 0 {
		return nil, fmt.Errorf("GetDIBits failed")
	}
	return fromBGRA(data, int(width), int(height), stride)
}

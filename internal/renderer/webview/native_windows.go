//go:build windows

package webview

import (
	"unsafe"

	"github.com/lxn/win"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// nativeHandle returns the HWND webview created.
func nativeHandle(native unsafe.Pointer, _ string) window.Handle {
	return window.Handle(uintptr(native))
}

// prepareWindow drops the frame so the surface covers the desktop edge to
// edge.
func prepareWindow(native unsafe.Pointer) {
	hwnd := win.HWND(uintptr(native))
	style := win.GetWindowLong(hwnd, win.GWL_STYLE)
	style &^= win.WS_CAPTION | win.WS_THICKFRAME
	win.SetWindowLong(hwnd, win.GWL_STYLE, style)
	win.SetWindowPos(hwnd, 0, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_NOZORDER|win.SWP_FRAMECHANGED)
}

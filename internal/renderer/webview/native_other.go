//go:build !windows && !linux

package webview

import (
	"unsafe"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

func nativeHandle(native unsafe.Pointer, _ string) window.Handle {
	return window.Handle(uintptr(native))
}

func prepareWindow(unsafe.Pointer) {}

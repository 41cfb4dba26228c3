//go:build windows

package window

import (
	"fmt"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

const (
	gwlExStyle      = -20
	wsExTopmost     = 0x00000008
	wsExTransparent = 0x00000020
	wsExNoActivate  = 0x08000000

	swHide = 0
	swShow = 5

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010
	swpShowWindow = 0x0040

	gwHwndNext = 2
	gwHwndPrev = 3

	gaParent = 1

	// maxSiblingWalk bounds the z-order walk.
	maxSiblingWalk = 512
)

var (
	hwndTop    = win.HWND(0)
	hwndBottom = win.HWND(1)

	user32          = windows.NewLazySystemDLL("user32.dll")
	procGetAncestor = user32.NewProc("GetAncestor")
	procGetWindow   = user32.NewProc("GetWindow")
)

// Win32 implements Controller with user32 calls.
type Win32 struct{}

var _ Controller = (*Win32)(nil)

// NewWin32 returns the Win32 controller.
func NewWin32() *Win32 {
	return &Win32{}
}

// Name returns the backend name.
func (c *Win32) Name() string { return "win32" }

func hwnd(h Handle) win.HWND { return win.HWND(h) }

func (c *Win32) check(op string, h Handle) error {
	if h == 0 || !windows.IsWindow(windows.HWND(h)) {
		return NewOpError(op, h, KindInvalidHandle, nil)
	}
	return nil
}

// parentOf returns the real parent of h, with the desktop window mapped to 0.
func parentOf(h Handle) Handle {
	p, _, _ := procGetAncestor.Call(uintptr(h), gaParent)
	if p == 0 || windows.HWND(p) == windows.GetDesktopWindow() {
		return 0
	}
	return Handle(p)
}

// SetParent implements Controller.
func (c *Win32) SetParent(h, parent Handle) error {
	if err := c.check("SetParent", h); err != nil {
		return err
	}
	if parent != 0 && !windows.IsWindow(windows.HWND(parent)) {
		return NewOpError("SetParent", h, KindInvalidHandle, fmt.Errorf("parent %s is not a window", parent))
	}
	if parentOf(h) == parent {
		return nil
	}
	win.SetParent(hwnd(h), hwnd(parent))
	if got := parentOf(h); got != parent {
		return NewOpError("SetParent", h, KindOSCall, fmt.Errorf("parent is %s, want %s", got, parent))
	}
	return nil
}

// SetClickThrough implements Controller.
func (c *Win32) SetClickThrough(h Handle, enabled bool) error {
	if err := c.check("SetClickThrough", h); err != nil {
		return err
	}
	style := win.GetWindowLong(hwnd(h), gwlExStyle)
	next := style
	if enabled {
		next |= wsExTransparent | wsExNoActivate
	} else {
		next &^= wsExTransparent | wsExNoActivate
	}

	logger.WithComponent("win32").Debug().
		Stringer("hwnd", h).
		Str("old_style", fmt.Sprintf("0x%X", uint32(style))).
		Str("new_style", fmt.Sprintf("0x%X", uint32(next))).
		Bool("click_through", enabled).
		Msg("Updating extended style")

	if next == style {
		return nil
	}
	win.SetWindowLong(hwnd(h), gwlExStyle, next)
	if got := win.GetWindowLong(hwnd(h), gwlExStyle); got != next {
		return NewOpError("SetClickThrough", h, KindOSCall,
			fmt.Errorf("extended style is 0x%X, want 0x%X", uint32(got), uint32(next)))
	}
	return nil
}

// BringToFront implements Controller.
func (c *Win32) BringToFront(h Handle) error {
	if err := c.check("BringToFront", h); err != nil {
		return err
	}
	win.ShowWindow(hwnd(h), swShow)
	if !win.SetWindowPos(hwnd(h), hwndTop, 0, 0, 0, 0, swpNoMove|swpNoSize|swpShowWindow) {
		return NewOpError("BringToFront", h, KindOSCall, windows.GetLastError())
	}
	if !win.SetForegroundWindow(hwnd(h)) {
		return NewOpError("BringToFront", h, KindOSCall, fmt.Errorf("foreground activation refused"))
	}
	win.SetFocus(hwnd(h))
	return nil
}

// SendToBack implements Controller.
func (c *Win32) SendToBack(h Handle) error {
	if err := c.check("SendToBack", h); err != nil {
		return err
	}
	if !win.SetWindowPos(hwnd(h), hwndBottom, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate) {
		return NewOpError("SendToBack", h, KindOSCall, windows.GetLastError())
	}
	return nil
}

// Resize implements Controller.
func (c *Win32) Resize(h Handle, bounds Rect) error {
	if err := c.check("Resize", h); err != nil {
		return err
	}
	if !win.SetWindowPos(hwnd(h), 0,
		int32(bounds.X), int32(bounds.Y), int32(bounds.Width), int32(bounds.Height),
		swpNoActivate|swpNoZOrder|swpShowWindow) {
		return NewOpError("Resize", h, KindOSCall, windows.GetLastError())
	}
	return nil
}

// Hide implements Controller.
func (c *Win32) Hide(h Handle) error {
	if err := c.check("Hide", h); err != nil {
		return err
	}
	// ShowWindow returns the previous visibility, not a status.
	win.ShowWindow(hwnd(h), swHide)
	return nil
}

// Attributes implements Controller.
func (c *Win32) Attributes(h Handle) (AttributeSet, error) {
	if err := c.check("Attributes", h); err != nil {
		return AttributeSet{}, err
	}
	style := uint32(win.GetWindowLong(hwnd(h), gwlExStyle))
	return AttributeSet{
		ClickThrough:         style&wsExTransparent != 0,
		ActivationSuppressed: style&wsExNoActivate != 0,
		Parent:               parentOf(h),
		ZOrder:               zOrderOf(h),
	}, nil
}

// zOrderOf reports Bottom when h has no next sibling, and Top when every
// visible sibling above it is a topmost window.
func zOrderOf(h Handle) ZOrder {
	if next, _, _ := procGetWindow.Call(uintptr(h), gwHwndNext); next == 0 {
		return ZOrderBottom
	}
	cur := uintptr(h)
	for i := 0; i < maxSiblingWalk; i++ {
		prev, _, _ := procGetWindow.Call(cur, gwHwndPrev)
		if prev == 0 {
			return ZOrderTop
		}
		cur = prev
		if !win.IsWindowVisible(win.HWND(prev)) {
			continue
		}
		if uint32(win.GetWindowLong(win.HWND(prev), gwlExStyle))&wsExTopmost == 0 {
			return ZOrderUnknown
		}
	}
	return ZOrderUnknown
}

//go:build windows

package locator

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

const (
	// msgSpawnWorker makes Progman create the WorkerW behind the icons.
	msgSpawnWorker = 0x052C
	smtoNormal     = 0x0000
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procFindWindowExW      = user32.NewProc("FindWindowExW")
	procSendMessageTimeout = user32.NewProc("SendMessageTimeoutW")

	classProgman = windows.StringToUTF16Ptr("Progman")
	classWorkerW = windows.StringToUTF16Ptr("WorkerW")
	classDefView = windows.StringToUTF16Ptr("SHELLDLL_DefView")
)

// Win32Shell queries Progman and its WorkerW containers.
type Win32Shell struct{}

// NewShell returns the platform shell.
func NewShell() Shell {
	return Win32Shell{}
}

func findWindowEx(parent, after uintptr, class *uint16) window.Handle {
	h, _, _ := procFindWindowExW.Call(parent, after, uintptr(unsafe.Pointer(class)), 0)
	return window.Handle(h)
}

// FindManager implements Shell.
func (Win32Shell) FindManager() window.Handle {
	return window.Handle(win.FindWindow(classProgman, nil))
}

// RequestWorker implements Shell.
func (Win32Shell) RequestWorker(manager window.Handle, timeout time.Duration) error {
	var result uintptr
	ret, _, err := procSendMessageTimeout.Call(
		uintptr(manager),
		msgSpawnWorker,
		0,
		0,
		smtoNormal,
		uintptr(timeout.Milliseconds()),
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 {
		return fmt.Errorf("SendMessageTimeout 0x%X: %w", msgSpawnWorker, err)
	}
	return nil
}

// NextContainer implements Shell.
func (Win32Shell) NextContainer(after window.Handle) window.Handle {
	return findWindowEx(0, uintptr(after), classWorkerW)
}

// HasIconView implements Shell.
func (Win32Shell) HasIconView(container window.Handle) bool {
	return findWindowEx(uintptr(container), 0, classDefView) != 0
}

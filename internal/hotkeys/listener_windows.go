//go:build windows

package hotkeys

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/windows"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

const (
	modNoRepeat = 0x4000
	wmHotkey    = 0x0312
	wmQuit      = 0x0012
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// win32Listener owns a thread with a message queue that receives
// WM_HOTKEY.
type win32Listener struct {
	d *Dispatcher

	mu       sync.Mutex
	threadID uint32
	done     chan struct{}
}

// NewListener returns the platform listener.
func NewListener(d *Dispatcher) (Listener, error) {
	return &win32Listener{d: d}, nil
}

// Register implements Listener. Hotkeys belong to the registering thread,
// so registration and the message loop share one locked goroutine.
func (l *win32Listener) Register(bindings []Binding) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		return fmt.Errorf("hotkeys already registered")
	}

	started := make(chan error, 1)
	tid := make(chan uint32, 1)
	l.done = make(chan struct{})
	go l.loop(bindings, tid, started)
	select {
	case l.threadID = <-tid:
	case <-l.done:
	}
	return awaitStart(started, l.done)
}

func (l *win32Listener) loop(bindings []Binding, tid chan<- uint32, started chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)
	defer logger.Recover("hotkeys")

	tid <- windows.GetCurrentThreadId()

	var result *multierror.Error
	var registered []Binding
	for _, b := range bindings {
		mods, vk := b.Combo.VirtualKey()
		ret, _, err := procRegisterHotKey.Call(0, uintptr(b.ID), uintptr(mods|modNoRepeat), uintptr(vk))
		if ret == 0 {
			result = multierror.Append(result, fmt.Errorf("register %s (%s): %w", b.ID, b.Combo, err))
			continue
		}
		registered = append(registered, b)
		logRegistered(b)
	}
	started <- result.ErrorOrNil()

	defer func() {
		for _, b := range registered {
			procUnregisterHotKey.Call(0, uintptr(b.ID))
		}
		logger.WithComponent("hotkeys").Debug().Int("count", len(registered)).Msg("Hotkeys unregistered")
	}()

	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		// 0 is WM_QUIT, -1 is an error
		if int32(ret) <= 0 {
			return
		}
		if m.message == wmHotkey {
			l.d.Dispatch(ID(m.wParam))
		}
	}
}

// Close implements Listener.
func (l *win32Listener) Close() error {
	l.mu.Lock()
	done := l.done
	tid := l.threadID
	l.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	default:
	}
	ret, _, err := procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
	if ret == 0 {
		return fmt.Errorf("failed to stop hotkey thread: %w", err)
	}
	<-done
	return nil
}

package wallpaper

import (
	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/uithread"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// Host is the thread-safe face of a Controller: every call is marshaled
// onto the owner thread.
type Host struct {
	ctrl   *Controller
	thread *uithread.Thread
}

// NewHost wraps ctrl.
func NewHost(ctrl *Controller, thread *uithread.Thread) *Host {
	return &Host{ctrl: ctrl, thread: thread}
}

func (h *Host) EnterBackground() error { return h.thread.Call(h.ctrl.EnterBackground) }

func (h *Host) EnterForeground() error { return h.thread.Call(h.ctrl.EnterForeground) }

func (h *Host) ResumeBackground() error { return h.thread.Call(h.ctrl.ResumeBackground) }

func (h *Host) Toggle() error { return h.thread.Call(h.ctrl.Toggle) }

func (h *Host) ToggleMute() error { return h.thread.Call(h.ctrl.ToggleMute) }

func (h *Host) Reload() error { return h.thread.Call(h.ctrl.Reload) }

func (h *Host) SetMode(mode Mode) error {
	return h.thread.Call(func() error { return h.ctrl.SetMode(mode) })
}

func (h *Host) SetMuted(muted bool) error {
	return h.thread.Call(func() error { return h.ctrl.SetMuted(muted) })
}

// Navigate returns the normalized URL that was loaded.
func (h *Host) Navigate(raw string) (string, error) {
	var url string
	err := h.thread.Call(func() error {
		var err error
		url, err = h.ctrl.Navigate(raw)
		return err
	})
	return url, err
}

// Surface returns the surface window handle.
func (h *Host) Surface() (window.Handle, error) {
	var surface window.Handle
	err := h.thread.Call(func() error {
		var err error
		surface, err = h.ctrl.Surface()
		return err
	})
	return surface, err
}

// Shutdown runs the controller shutdown on the owner thread. When the
// owner thread is already gone it runs on the caller's.
func (h *Host) Shutdown() {
	err := h.thread.Call(func() error {
		h.ctrl.Shutdown()
		return nil
	})
	if err != nil {
		logger.WithComponent("wallpaper").Warn().Err(err).Msg("UI thread unavailable, shutting down in place")
		h.ctrl.Shutdown()
	}
}

// State returns a snapshot of the controller.
func (h *Host) State() State { return h.ctrl.State() }

// Subscribe registers a state observer.
func (h *Host) Subscribe(fn func(State)) func() { return h.ctrl.Subscribe(fn) }

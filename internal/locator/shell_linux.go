package locator

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
	"github.com/bryanchriswhite/WebWallpaper/internal/x11"
)

// X11Shell treats the root window as the manager and top-level
// _NET_WM_WINDOW_TYPE_DESKTOP windows as containers. X desktops draw icons
// into the container itself, so no container is ever skipped.
type X11Shell struct {
	x *x11.Connection
}

// NewX11Shell creates a shell on an open connection.
func NewX11Shell(conn *x11.Connection) *X11Shell {
	return &X11Shell{x: conn}
}

// FindManager implements Shell.
func (s *X11Shell) FindManager() window.Handle {
	return window.Handle(s.x.Root)
}

// RequestWorker implements Shell. Desktop windows exist without being
// asked for.
func (s *X11Shell) RequestWorker(window.Handle, time.Duration) error {
	return nil
}

// containers lists desktop windows topmost first.
func (s *X11Shell) containers() []xproto.Window {
	children, _, err := s.x.Children(s.x.Root)
	if err != nil {
		logger.WithComponent("locator").Debug().Err(err).Msg("QueryTree on root failed")
		return nil
	}
	var out []xproto.Window
	for i := len(children) - 1; i >= 0; i-- {
		if s.isDesktop(children[i]) {
			out = append(out, children[i])
		}
	}
	return out
}

func (s *X11Shell) isDesktop(w xproto.Window) bool {
	if s.x.HasAtomValue(w, "_NET_WM_WINDOW_TYPE", "_NET_WM_WINDOW_TYPE_DESKTOP") {
		return true
	}
	// Reparenting window managers put the desktop client inside a frame.
	grand, _, err := s.x.Children(w)
	if err != nil {
		return false
	}
	for _, g := range grand {
		if s.x.HasAtomValue(g, "_NET_WM_WINDOW_TYPE", "_NET_WM_WINDOW_TYPE_DESKTOP") {
			return true
		}
	}
	return false
}

// NextContainer implements Shell.
func (s *X11Shell) NextContainer(after window.Handle) window.Handle {
	list := s.containers()
	if after == 0 {
		if len(list) == 0 {
			return 0
		}
		return window.Handle(list[0])
	}
	for i, w := range list {
		if window.Handle(w) == after && i+1 < len(list) {
			return window.Handle(list[i+1])
		}
	}
	return 0
}

// HasIconView implements Shell.
func (s *X11Shell) HasIconView(window.Handle) bool {
	return false
}

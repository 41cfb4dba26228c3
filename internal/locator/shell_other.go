//go:build !windows && !linux

package locator

import (
	"fmt"
	"time"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// NoShell finds nothing, so the wallpaper stays in the foreground.
type NoShell struct{}

// NewShell returns the platform shell.
func NewShell() Shell {
	return NoShell{}
}

func (NoShell) FindManager() window.Handle { return 0 }

func (NoShell) RequestWorker(window.Handle, time.Duration) error {
	return fmt.Errorf("desktop host not supported on this platform")
}

func (NoShell) NextContainer(window.Handle) window.Handle { return 0 }

func (NoShell) HasIconView(window.Handle) bool { return false }

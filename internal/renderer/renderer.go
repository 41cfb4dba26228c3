// Package renderer defines the web content surface that becomes the
// wallpaper.
package renderer

import (
	"context"
	"errors"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// DefaultTitle is the title of the surface window. The X11 backend finds
// its own window by it.
const DefaultTitle = "WebWallpaper"

// ErrClosed is returned by a surface that has been released.
var ErrClosed = errors.New("renderer closed")

// Options configures Initialize.
type Options struct {
	UserDataDir string
	URL         string
	StartMuted  bool
	Bounds      window.Rect
	Title       string
	// Debug enables the engine's developer tools.
	Debug bool
}

// Surface is an embedded browser engine hosted in its own top-level window.
// All methods must be called on the owner thread.
type Surface interface {
	Initialize(ctx context.Context, opts Options) error
	Navigate(url string) error
	Reload() error
	SetMuted(muted bool) error
	Muted() bool
	// Handle returns the OS window of the surface, or 0 before it exists.
	Handle() window.Handle
	Close() error
}

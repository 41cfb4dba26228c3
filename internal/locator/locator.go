// Package locator finds the shell-owned window that hosts the desktop
// wallpaper.
package locator

import (
	"context"
	"time"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

const (
	// DefaultTimeout bounds the spawn-worker request.
	DefaultTimeout = time.Second
	// DefaultMaxContainers caps container enumeration.
	DefaultMaxContainers = 256
)

// Shell is the OS query surface used by the Locator.
type Shell interface {
	// FindManager returns the shell's desktop-manager window, or 0.
	FindManager() window.Handle
	// RequestWorker asks the manager to spawn its worker containers. The
	// result is advisory.
	RequestWorker(manager window.Handle, timeout time.Duration) error
	// NextContainer returns the container after the given one in
	// front-to-back order. A zero after starts the enumeration; a zero
	// result ends it.
	NextContainer(after window.Handle) window.Handle
	// HasIconView reports whether a container holds the desktop icons.
	HasIconView(container window.Handle) bool
}

// Locator finds the wallpaper host. It never caches its result.
type Locator struct {
	Shell         Shell
	Timeout       time.Duration
	MaxContainers int
}

// New returns a Locator with default limits.
func New(shell Shell) *Locator {
	return &Locator{
		Shell:         shell,
		Timeout:       DefaultTimeout,
		MaxContainers: DefaultMaxContainers,
	}
}

// Locate returns the last container without an icon view, or false when
// none qualifies.
func (l *Locator) Locate(ctx context.Context) (window.Handle, bool) {
	log := logger.WithComponent("locator")

	if err := ctx.Err(); err != nil {
		log.Debug().Err(err).Msg("Locate cancelled before probing")
		return 0, false
	}

	manager := l.Shell.FindManager()
	if manager == 0 {
		log.Warn().Msg("Desktop manager window not found")
		return 0, false
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := l.Shell.RequestWorker(manager, timeout); err != nil {
		log.Debug().Err(err).Stringer("manager", manager).Msg("Spawn-worker request failed, enumerating anyway")
	}

	limit := l.MaxContainers
	if limit <= 0 {
		limit = DefaultMaxContainers
	}

	var host, cur window.Handle
	seen := 0
	for {
		if ctx.Err() != nil {
			break
		}
		cur = l.Shell.NextContainer(cur)
		if cur == 0 {
			break
		}
		seen++
		if seen > limit {
			log.Warn().Int("limit", limit).Msg("Container enumeration cap reached")
			break
		}
		if l.Shell.HasIconView(cur) {
			continue
		}
		host = cur
	}

	if host == 0 {
		log.Debug().Int("containers", seen).Msg("No wallpaper host found")
		return 0, false
	}
	log.Debug().Stringer("host", host).Int("containers", seen).Msg("Located wallpaper host")
	return host, true
}

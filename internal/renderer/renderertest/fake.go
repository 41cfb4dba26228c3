// Package renderertest provides an in-memory renderer.Surface.
package renderertest

import (
	"context"
	"sync"

	"github.com/bryanchriswhite/WebWallpaper/internal/renderer"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// Fake records what a real surface would have been asked to do.
type Fake struct {
	mu sync.Mutex

	// Window is returned by Handle once initialized.
	Window window.Handle
	// InitErr makes Initialize fail.
	InitErr error

	Options     renderer.Options
	Initialized bool
	Closed      bool
	URL         string
	Navigations []string
	Reloads     int
	CloseCalls  int
	muted       bool
}

var _ renderer.Surface = (*Fake)(nil)

// New returns a fake whose window is h.
func New(h window.Handle) *Fake {
	return &Fake{Window: h}
}

func (f *Fake) Initialize(ctx context.Context, opts renderer.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.InitErr != nil {
		return f.InitErr
	}
	f.Options = opts
	f.Initialized = true
	f.URL = opts.URL
	f.muted = opts.StartMuted
	return nil
}

func (f *Fake) Navigate(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Closed {
		return renderer.ErrClosed
	}
	f.URL = url
	f.Navigations = append(f.Navigations, url)
	return nil
}

func (f *Fake) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Closed {
		return renderer.ErrClosed
	}
	f.Reloads++
	return nil
}

func (f *Fake) SetMuted(muted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Closed {
		return renderer.ErrClosed
	}
	f.muted = muted
	return nil
}

func (f *Fake) Muted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

func (f *Fake) Handle() window.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Initialized || f.Closed {
		return 0
	}
	return f.Window
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CloseCalls++
	f.Closed = true
	return nil
}

// Package wallpaper switches the web surface between a desktop wallpaper
// and an interactive window.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/navurl"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

var (
	// ErrNotReady is returned before Init succeeds and after Shutdown.
	ErrNotReady = errors.New("wallpaper not ready")
	// ErrEmptyURL rejects a blank navigation.
	ErrEmptyURL = navurl.ErrEmpty
	// ErrInvalidURL rejects a navigation that does not parse as a URL.
	ErrInvalidURL = navurl.ErrInvalid
)

// Locator finds the wallpaper host window.
type Locator interface {
	Locate(ctx context.Context) (window.Handle, bool)
}

// Refresher makes the shell repaint its own wallpaper.
type Refresher interface {
	RefreshWallpaper(host window.Handle) error
}

// BoundsFunc returns the primary display rectangle.
type BoundsFunc func() window.Rect

// Config holds the collaborators of a Controller.
type Config struct {
	Window   window.Controller
	Locator  Locator
	Renderer renderer.Surface
	Desktop  Refresher
	Bounds   BoundsFunc
}

// Controller owns the surface window and its mode. Its methods must run on
// the owner thread; use Host from other goroutines.
type Controller struct {
	win      window.Controller
	locator  Locator
	renderer renderer.Surface
	desktop  Refresher
	bounds   BoundsFunc

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	mode    Mode
	muted   bool
	url     string
	host    window.Handle
	pending bool
	ready   bool
	closed  bool
	initErr error

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// New creates a controller. Mode starts Background and Muted starts true.
func New(cfg Config) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	bounds := cfg.Bounds
	if bounds == nil {
		bounds = func() window.Rect { return window.Rect{} }
	}
	return &Controller{
		win:      cfg.Window,
		locator:  cfg.Locator,
		renderer: cfg.Renderer,
		desktop:  cfg.Desktop,
		bounds:   bounds,
		ctx:      ctx,
		cancel:   cancel,
		mode:     ModeBackground,
		muted:    true,
		subs:     make(map[int]func(State)),
	}
}

// Init creates the surface and embeds it as the wallpaper.
func (c *Controller) Init(ctx context.Context, opts renderer.Options) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.ready {
		c.mu.Unlock()
		return nil
	}
	c.url = opts.URL
	c.muted = opts.StartMuted
	c.mu.Unlock()

	if opts.Bounds.Empty() {
		opts.Bounds = c.bounds()
	}
	if err := c.renderer.Initialize(ctx, opts); err != nil {
		err = fmt.Errorf("failed to initialize renderer: %w", err)
		c.mu.Lock()
		c.initErr = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.ready = true
	c.initErr = nil
	c.mu.Unlock()

	logger.WithComponent("wallpaper").Info().
		Str("url", opts.URL).
		Bool("muted", opts.StartMuted).
		Msg("Surface initialized")

	if err := c.EnterBackground(); err != nil {
		// The surface window is not there yet. Report what is on screen, a
		// floating window, until ResumeBackground embeds it.
		c.mu.Lock()
		c.mode = ModeForeground
		c.host = 0
		c.pending = true
		c.mu.Unlock()
		logger.WithComponent("wallpaper").Warn().Err(err).Msg("Initial background transition deferred")
		c.publish()
	}
	return nil
}

// ResumeBackground completes a background transition deferred by Init. It
// does nothing when none is pending, and keeps it pending while the surface
// window is still missing.
func (c *Controller) ResumeBackground() error {
	c.mu.RLock()
	pending := c.pending
	c.mu.RUnlock()
	if !pending {
		return nil
	}
	return c.EnterBackground()
}

// checkReady returns ErrNotReady, wrapping the init failure if there was
// one.
func (c *Controller) checkReady() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || !c.ready {
		if c.initErr != nil {
			return fmt.Errorf("%w: %v", ErrNotReady, c.initErr)
		}
		return ErrNotReady
	}
	return nil
}

// surface returns the live surface window.
func (c *Controller) surface() (window.Handle, error) {
	if err := c.checkReady(); err != nil {
		return 0, err
	}
	h := c.renderer.Handle()
	if h == 0 {
		return 0, fmt.Errorf("%w: surface window not created", ErrNotReady)
	}
	return h, nil
}

// Surface returns the surface window, for capture and diagnostics.
func (c *Controller) Surface() (window.Handle, error) {
	return c.surface()
}

// step logs a failed attribute operation. The transition carries on.
func (c *Controller) step(op string, err error) {
	if err == nil {
		return
	}
	logger.WithComponent("wallpaper").Warn().Err(err).Str("op", op).Msg("Window operation failed, continuing")
}

// EnterBackground embeds the surface under a freshly located host. Without
// a host it falls back to the foreground.
func (c *Controller) EnterBackground() error {
	h, err := c.surface()
	if err != nil {
		return err
	}
	log := logger.WithComponent("wallpaper")

	host, found := c.locator.Locate(c.ctx)
	if !found {
		log.Info().Msg("Wallpaper host not found, falling back to foreground")
		return c.EnterForeground()
	}

	c.step("SetClickThrough", c.win.SetClickThrough(h, true))
	c.step("SetParent", c.win.SetParent(h, host))
	if bounds := c.bounds(); !bounds.Empty() {
		c.step("Resize", c.win.Resize(h, bounds))
	}
	c.step("SendToBack", c.win.SendToBack(h))

	c.mu.Lock()
	c.mode = ModeBackground
	c.host = host
	c.pending = false
	c.mu.Unlock()

	log.Info().Stringer("window", h).Stringer("host", host).Msg("Entered background mode")
	c.publish()
	return nil
}

// EnterForeground detaches the surface and makes it interactive.
func (c *Controller) EnterForeground() error {
	h, err := c.surface()
	if err != nil {
		return err
	}

	c.step("SetClickThrough", c.win.SetClickThrough(h, false))
	c.step("SetParent", c.win.SetParent(h, 0))
	c.step("BringToFront", c.win.BringToFront(h))

	c.mu.Lock()
	c.mode = ModeForeground
	c.host = 0
	c.pending = false
	c.mu.Unlock()

	logger.WithComponent("wallpaper").Info().Stringer("window", h).Msg("Entered foreground mode")
	c.publish()
	return nil
}

// SetMode applies mode.
func (c *Controller) SetMode(mode Mode) error {
	if mode == ModeBackground {
		return c.EnterBackground()
	}
	return c.EnterForeground()
}

// Toggle flips between background and foreground.
func (c *Controller) Toggle() error {
	c.mu.RLock()
	mode := c.mode
	c.mu.RUnlock()
	if mode == ModeBackground {
		return c.EnterForeground()
	}
	return c.EnterBackground()
}

// SetMuted mutes or unmutes page media.
func (c *Controller) SetMuted(muted bool) error {
	if err := c.checkReady(); err != nil {
		return err
	}
	if err := c.renderer.SetMuted(muted); err != nil {
		return fmt.Errorf("failed to set muted: %w", err)
	}
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()

	logger.WithComponent("wallpaper").Info().Bool("muted", muted).Msg("Mute changed")
	c.publish()
	return nil
}

// ToggleMute flips the muted flag.
func (c *Controller) ToggleMute() error {
	c.mu.RLock()
	muted := c.muted
	c.mu.RUnlock()
	return c.SetMuted(!muted)
}

// Navigate normalizes raw and loads it. The mode is unchanged.
func (c *Controller) Navigate(raw string) (string, error) {
	url, err := navurl.Parse(raw)
	if err != nil {
		return "", err
	}
	if err := c.checkReady(); err != nil {
		return "", err
	}
	if err := c.renderer.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}
	c.mu.Lock()
	c.url = url
	c.mu.Unlock()

	logger.WithComponent("wallpaper").Info().Str("url", url).Msg("Navigated")
	c.publish()
	return url, nil
}

// Reload reloads the current page.
func (c *Controller) Reload() error {
	if err := c.checkReady(); err != nil {
		return err
	}
	if err := c.renderer.Reload(); err != nil {
		return fmt.Errorf("failed to reload: %w", err)
	}
	logger.WithComponent("wallpaper").Info().Msg("Reloaded")
	return nil
}

// Shutdown detaches and hides the surface, restores the shell wallpaper and
// releases the surface. Every step runs, even when an earlier one fails or
// panics; failures are logged. Calling it again does nothing.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.pending = false
	ready := c.ready
	host := c.host
	c.host = 0
	c.mu.Unlock()

	c.cancel()
	log := logger.WithComponent("wallpaper")

	var result *multierror.Error
	run := func(name string, fn func() error) {
		if err := guard(name, fn); err != nil {
			result = multierror.Append(result, err)
		}
	}

	var h window.Handle
	if ready {
		run("surface handle", func() error {
			h = c.renderer.Handle()
			return nil
		})
	}
	if h != 0 {
		run("detach", func() error { return c.win.SetParent(h, 0) })
		run("hide", func() error { return c.win.Hide(h) })
	}
	if c.desktop != nil {
		run("refresh wallpaper", func() error { return c.desktop.RefreshWallpaper(host) })
	}
	run("close renderer", c.renderer.Close)

	if err := result.ErrorOrNil(); err != nil {
		log.Warn().Err(err).Msg("Shutdown completed with errors")
	} else {
		log.Info().Msg("Shutdown complete")
	}
	c.publish()
}

// guard runs fn and turns a panic into an error.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("failed to %s: %w", name, err)
	}
	return nil
}

// State returns a snapshot. Safe from any goroutine.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Mode:    c.mode,
		Muted:   c.muted,
		URL:     c.url,
		Host:    c.host,
		Pending: c.pending,
		Ready:   c.ready && !c.closed,
		Closed:  c.closed,
	}
}

// Subscribe registers fn to receive the state after every change. fn runs
// on the owner thread and must not block. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) publish() {
	state := c.State()
	c.subMu.Lock()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()
	for _, fn := range subs {
		if err := guard("notify subscriber", func() error { fn(state); return nil }); err != nil {
			logger.WithComponent("wallpaper").Error().Err(err).Msg("State subscriber failed")
		}
	}
}

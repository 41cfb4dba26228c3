// Package webview implements renderer.Surface on the system web engine
// (WebView2 on Windows, WebKitGTK on Linux).
package webview

import (
	"context"
	"fmt"
	"os"
	"sync"
	"unsafe"

	webview "github.com/webview/webview_go"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer"
	"github.com/bryanchriswhite/WebWallpaper/internal/uithread"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// HandleResolver maps the engine's native window to an OS window handle.
type HandleResolver func(native unsafe.Pointer, title string) window.Handle

// Surface is a renderer.Surface backed by webview_go. It is also the owner
// thread's Poster: work is queued with the engine's Dispatch.
type Surface struct {
	resolve HandleResolver

	mu      sync.Mutex
	w       webview.WebView
	title   string
	url     string
	muted   bool
	handle  window.Handle
	closed  bool
	running bool
}

var (
	_ renderer.Surface = (*Surface)(nil)
	_ uithread.Poster  = (*Surface)(nil)
)

// New creates an uninitialized surface. A nil resolve uses the platform
// default.
func New(resolve HandleResolver) *Surface {
	if resolve == nil {
		resolve = nativeHandle
	}
	return &Surface{resolve: resolve, title: renderer.DefaultTitle}
}

// Initialize creates the engine window and starts loading opts.URL. It must
// run on the thread that will later call Run.
func (s *Surface) Initialize(ctx context.Context, opts renderer.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.WithComponent("renderer")

	if opts.UserDataDir != "" {
		if err := os.MkdirAll(opts.UserDataDir, 0755); err != nil {
			return fmt.Errorf("failed to create user data dir: %w", err)
		}
		os.Setenv("WEBVIEW2_USER_DATA_FOLDER", opts.UserDataDir)
	}
	os.Setenv("WEBVIEW2_ADDITIONAL_BROWSER_ARGUMENTS", "--autoplay-policy=no-user-gesture-required")

	w := webview.New(opts.Debug)
	if w == nil || w.Window() == nil {
		return fmt.Errorf("failed to create web view")
	}

	title := opts.Title
	if title == "" {
		title = renderer.DefaultTitle
	}

	s.mu.Lock()
	s.w = w
	s.title = title
	s.muted = opts.StartMuted
	s.url = opts.URL
	s.mu.Unlock()

	w.SetTitle(title)
	if !opts.Bounds.Empty() {
		w.SetSize(opts.Bounds.Width, opts.Bounds.Height, webview.HintNone)
	}
	if err := w.Bind(renderer.MutedStateBinding, func() bool { return s.Muted() }); err != nil {
		log.Warn().Err(err).Msg("Failed to bind muted state, new pages start unmuted")
	}
	w.Init(renderer.InitScript)
	prepareWindow(w.Window())
	if opts.URL != "" {
		w.Navigate(opts.URL)
	}

	log.Info().
		Str("url", opts.URL).
		Bool("muted", opts.StartMuted).
		Str("user_data_dir", opts.UserDataDir).
		Msg("Web view created")
	return nil
}

// Run pumps the engine's message loop until Close. It destroys the engine
// on return.
func (s *Surface) Run() {
	s.mu.Lock()
	w := s.w
	if w == nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	w.Run()

	s.mu.Lock()
	s.running = false
	s.closed = true
	s.w = nil
	s.mu.Unlock()
	w.Destroy()
}

// Post implements uithread.Poster.
func (s *Surface) Post(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil || s.closed {
		return uithread.ErrStopped
	}
	s.w.Dispatch(fn)
	return nil
}

func (s *Surface) engine() (webview.WebView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil || s.closed {
		return nil, renderer.ErrClosed
	}
	return s.w, nil
}

// Navigate implements renderer.Surface.
func (s *Surface) Navigate(url string) error {
	w, err := s.engine()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	w.Navigate(url)
	return nil
}

// Reload implements renderer.Surface.
func (s *Surface) Reload() error {
	w, err := s.engine()
	if err != nil {
		return err
	}
	w.Eval(renderer.ReloadScript)
	return nil
}

// SetMuted implements renderer.Surface.
func (s *Surface) SetMuted(muted bool) error {
	w, err := s.engine()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
	w.Eval(renderer.MuteScript(muted))
	return nil
}

// Muted implements renderer.Surface.
func (s *Surface) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Handle implements renderer.Surface. The handle is resolved lazily since
// some platforms only create the OS window once the loop runs.
func (s *Surface) Handle() window.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil || s.closed {
		return 0
	}
	if s.handle == 0 {
		s.handle = s.resolve(s.w.Window(), s.title)
	}
	return s.handle
}

// Close stops the message loop. The engine is destroyed when Run returns.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.handle = 0
	if s.w == nil {
		return nil
	}
	if s.running {
		s.w.Terminate()
		return nil
	}
	s.w.Destroy()
	s.w = nil
	return nil
}

// Package app assembles the wallpaper, its triggers and its services.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bryanchriswhite/WebWallpaper/internal/api"
	"github.com/bryanchriswhite/WebWallpaper/internal/autostart"
	"github.com/bryanchriswhite/WebWallpaper/internal/capture"
	"github.com/bryanchriswhite/WebWallpaper/internal/config"
	"github.com/bryanchriswhite/WebWallpaper/internal/desktop"
	"github.com/bryanchriswhite/WebWallpaper/internal/hotkeys"
	"github.com/bryanchriswhite/WebWallpaper/internal/locator"
	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer/webview"
	"github.com/bryanchriswhite/WebWallpaper/internal/tray"
	"github.com/bryanchriswhite/WebWallpaper/internal/uithread"
	"github.com/bryanchriswhite/WebWallpaper/internal/wallpaper"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

const (
	resumeInterval = 250 * time.Millisecond
	resumeAttempts = 40
)

// Options configures Run.
type Options struct {
	Config  *config.Manager
	Version string
	// Port overrides the configured API port when non-zero.
	Port      int
	NoTray    bool
	NoHotkeys bool
}

// platform bundles the OS backends.
type platform struct {
	Window   window.Controller
	Shell    locator.Shell
	Desktop  desktop.Desktop
	Resolver webview.HandleResolver
	Capturer capture.Capturer
	close    func()
}

func (p *platform) Close() {
	if p.close != nil {
		p.close()
	}
}

type app struct {
	opts       Options
	host       *wallpaper.Host
	desktop    desktop.Desktop
	capturer   capture.Capturer
	tray       *tray.Tray
	listener   hotkeys.Listener
	dispatcher *hotkeys.Dispatcher
	group      *errgroup.Group
}

// Run shows the wallpaper and blocks until ctx is cancelled, the user
// quits, or the surface window is closed. It must be called on the main
// thread.
func Run(ctx context.Context, opts Options) error {
	log := logger.WithComponent("app")
	cfg := opts.Config.Get()

	plat, err := newPlatform()
	if err != nil {
		return fmt.Errorf("failed to initialize platform: %w", err)
	}
	defer plat.Close()

	surface := webview.New(plat.Resolver)
	loc := locator.New(plat.Shell)
	loc.Timeout = cfg.LocatorTimeout

	ctrl := wallpaper.New(wallpaper.Config{
		Window:   plat.Window,
		Locator:  loc,
		Renderer: surface,
		Desktop:  plat.Desktop,
		Bounds:   plat.Desktop.PrimaryBounds,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info().
		Str("version", opts.Version).
		Str("window_backend", plat.Window.Name()).
		Str("url", cfg.URL).
		Msg("Starting WebWallpaper")

	var (
		thread *uithread.Thread
		loop   *uithread.Loop
	)
	err = ctrl.Init(ctx, renderer.Options{
		UserDataDir: cfg.UserDataDir,
		URL:         cfg.URL,
		StartMuted:  cfg.StartMuted,
		Title:       renderer.DefaultTitle,
		Debug:       cfg.Debug,
	})
	if err != nil {
		// Keep the tray and API up so the user can see what happened.
		log.Error().Err(err).Msg("Renderer unavailable, running without a wallpaper")
		loop = uithread.NewLoop(0)
		thread = loop.Thread
	} else {
		thread = uithread.NewThread(surface)
		thread.BindOwner()
	}

	a := &app{
		opts:     opts,
		host:     wallpaper.NewHost(ctrl, thread),
		desktop:  plat.Desktop,
		capturer: plat.Capturer,
	}
	a.start(ctx, cancel)
	if ctrl.State().Pending {
		// Some window systems only expose the surface once the loop runs.
		go a.resumeBackground(ctx)
	}

	exited := make(chan struct{})
	go func() {
		defer close(exited)
		defer logger.Recover("app")
		<-ctx.Done()
		a.exit()
	}()

	if loop != nil {
		<-ctx.Done()
	} else {
		surface.Run()
		cancel()
	}
	<-exited
	if loop != nil {
		loop.Stop()
	}

	if err := a.group.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Exited cleanly")
	return nil
}

// resumeBackground retries the deferred first background transition until
// the surface window shows up. The wallpaper stays a floating window if it
// never does.
func (a *app) resumeBackground(ctx context.Context) {
	defer logger.Recover("app")
	log := logger.WithComponent("app")
	ticker := time.NewTicker(resumeInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= resumeAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		err := a.host.ResumeBackground()
		if !a.host.State().Pending {
			if err != nil {
				log.Warn().Err(err).Msg("Background transition failed")
			}
			return
		}
		log.Debug().Err(err).Int("attempt", attempt).Msg("Surface window not ready yet")
	}
	log.Warn().Msg("Surface window never appeared, staying in foreground")
}

// start launches hotkeys, the API, the config watcher and the tray.
func (a *app) start(ctx context.Context, quit context.CancelFunc) {
	log := logger.WithComponent("app")
	cfg := a.opts.Config.Get()
	g, gctx := errgroup.WithContext(ctx)
	a.group = g

	a.dispatcher = hotkeys.NewDispatcher(map[hotkeys.ID]hotkeys.Action{
		hotkeys.ToggleInteractive: a.host.Toggle,
		hotkeys.ToggleMute:        a.host.ToggleMute,
		hotkeys.Reload:            a.host.Reload,
	})
	if !a.opts.NoHotkeys {
		a.registerHotkeys(cfg.Hotkeys)
	}

	if cfg.API.Enabled {
		port := cfg.API.Port
		if a.opts.Port != 0 {
			port = a.opts.Port
		}
		api.Version = a.opts.Version
		srv := api.NewServer(a.host, a.opts.Config)
		if a.capturer != nil {
			srv.SetCapturer(a.capturer)
		}
		g.Go(func() error {
			defer logger.Recover("api")
			if err := srv.Start(gctx, port); err != nil {
				log.Error().Err(err).Int("port", port).Msg("Control API unavailable")
			}
			return nil
		})
	}

	g.Go(func() error {
		defer logger.Recover("config")
		if err := a.opts.Config.Watch(gctx, a.onConfigChange); err != nil {
			log.Warn().Err(err).Msg("Config watching disabled")
		}
		return nil
	})

	if !a.opts.NoTray {
		starter, err := autostart.New()
		if err != nil {
			log.Debug().Err(err).Msg("Autostart unavailable")
			starter = nil
		}
		saveURL := func(url string) error {
			_, err := a.opts.Config.SetURL(url)
			return err
		}
		a.tray = tray.New(a.host, tray.Options{
			Version:    a.opts.Version,
			ConfigPath: a.opts.Config.GetConfigPath(),
			SaveURL:    saveURL,
			Autostart:  starter,
			OnQuit:     quit,
		})
		g.Go(func() error {
			a.tray.Run()
			return nil
		})
	}
}

func (a *app) registerHotkeys(cfg config.HotkeyConfig) {
	log := logger.WithComponent("app")
	bindings, err := hotkeys.Bindings(map[hotkeys.ID]string{
		hotkeys.ToggleInteractive: cfg.Toggle,
		hotkeys.ToggleMute:        cfg.Mute,
		hotkeys.Reload:            cfg.Reload,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid hotkeys")
	}

	listener, err := hotkeys.NewListener(a.dispatcher)
	if err != nil {
		log.Warn().Err(err).Msg("Global hotkeys unavailable")
		return
	}
	if err := listener.Register(bindings); err != nil {
		log.Warn().Err(err).Msg("Some hotkeys could not be registered")
	}
	a.listener = listener
}

// onConfigChange applies hand edits of the settings file.
func (a *app) onConfigChange(old, updated *config.Config) {
	log := logger.WithComponent("app")
	if updated.LogLevel != old.LogLevel {
		zerolog.SetGlobalLevel(logger.ParseLevel(updated.LogLevel))
		log.Info().Str("level", updated.LogLevel).Msg("Log level changed")
	}
	if updated.URL != old.URL && updated.URL != a.host.State().URL {
		if _, err := a.host.Navigate(updated.URL); err != nil {
			log.Warn().Err(err).Str("url", updated.URL).Msg("Failed to load edited URL")
		}
	}
}

// exit unregisters hotkeys, shuts the wallpaper down, restores the
// desktop wallpaper once more and stops the tray.
func (a *app) exit() {
	log := logger.WithComponent("app")
	log.Info().Msg("Shutting down")
	start := time.Now()

	var result *multierror.Error
	if a.listener != nil {
		if err := a.listener.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("hotkeys: %w", err))
		}
	}
	a.dispatcher.Close()

	a.host.Shutdown()

	if err := a.desktop.RefreshWallpaper(0); err != nil {
		result = multierror.Append(result, fmt.Errorf("wallpaper refresh: %w", err))
	}

	if a.tray != nil {
		a.tray.Stop()
	}

	if err := result.ErrorOrNil(); err != nil {
		log.Warn().Err(err).Msg("Exit completed with errors")
		return
	}
	log.Info().Dur("took", time.Since(start)).Msg("Exit sequence complete")
}

// LocateHost runs the wallpaper host search once.
func LocateHost(ctx context.Context, timeout time.Duration) (window.Handle, bool, error) {
	plat, err := newPlatform()
	if err != nil {
		return 0, false, err
	}
	defer plat.Close()

	loc := locator.New(plat.Shell)
	loc.Timeout = timeout
	host, found := loc.Locate(ctx)
	return host, found, nil
}

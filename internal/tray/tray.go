// Package tray provides the notification area menu.
package tray

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"fyne.io/systray"
	"github.com/pkg/browser"

	"github.com/bryanchriswhite/WebWallpaper/internal/autostart"
	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/notify"
	"github.com/bryanchriswhite/WebWallpaper/internal/wallpaper"
)

// ProjectURL is opened by the About item.
const ProjectURL = "https://github.com/bryanchriswhite/WebWallpaper"

// Host is the subset of the wallpaper the menu drives.
type Host interface {
	State() wallpaper.State
	Subscribe(fn func(wallpaper.State)) func()
	Toggle() error
	ToggleMute() error
	Reload() error
	Navigate(raw string) (string, error)
}

// Options configures the menu.
type Options struct {
	Version string
	// ConfigPath is opened by "Edit Settings...".
	ConfigPath string
	// SaveURL persists an address picked with "Set URL...".
	SaveURL func(url string) error
	// Autostart is nil when start-at-login is unsupported.
	Autostart autostart.Manager
	// OnQuit runs when the user picks Quit.
	OnQuit func()
}

// Tray owns the systray icon and menu.
type Tray struct {
	host Host
	opts Options

	prompt    func(title, label, initial string) (string, bool, error)
	showError func(message string)

	states chan wallpaper.State
	stop   chan struct{}
	once   sync.Once
	exited chan struct{}
}

// New creates a tray for host.
func New(host Host, opts Options) *Tray {
	return &Tray{
		host:      host,
		opts:      opts,
		prompt:    notify.Prompt,
		showError: notify.ShowError,
		states:    make(chan wallpaper.State, 1),
		stop:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
}

// Run shows the icon and blocks until Stop. The menu's message loop needs
// a fixed OS thread on Windows.
func (t *Tray) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer logger.Recover("tray")
	systray.Run(t.onReady, t.onExit)
}

// Stop removes the icon. Safe to call more than once.
func (t *Tray) Stop() {
	t.once.Do(func() {
		close(t.stop)
		systray.Quit()
	})
}

// Exited is closed once the tray loop has finished.
func (t *Tray) Exited() <-chan struct{} {
	return t.exited
}

func (t *Tray) onExit() {
	close(t.exited)
}

func (t *Tray) onReady() {
	log := logger.WithComponent("tray")

	systray.SetIcon(iconData())
	systray.SetTitle("WebWallpaper")
	systray.SetTooltip("WebWallpaper")

	state := t.host.State()
	setURL := systray.AddMenuItem("Set URL...", "Choose the page shown as wallpaper")
	systray.AddSeparator()
	toggle := systray.AddMenuItem("Toggle Interaction", "Switch between wallpaper and interactive window")
	mute := systray.AddMenuItemCheckbox("Muted", "Mute page audio", state.Muted)
	reload := systray.AddMenuItem("Reload Page", "Reload the wallpaper page")
	systray.AddSeparator()
	settings := systray.AddMenuItem("Edit Settings...", "Open the settings file")

	var startup *systray.MenuItem
	if t.opts.Autostart != nil {
		enabled, err := t.opts.Autostart.Enabled()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read autostart state")
		}
		startup = systray.AddMenuItemCheckbox(t.opts.Autostart.Label(), "Start with your session", enabled)
	} else {
		// A zero item has no click channel and never fires.
		startup = &systray.MenuItem{}
	}

	about := systray.AddMenuItem(fmt.Sprintf("About WebWallpaper %s", t.opts.Version), "Open the project page")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Restore the desktop and exit")

	unsubscribe := t.host.Subscribe(t.offer)
	log.Info().Msg("Tray ready")

	go func() {
		defer unsubscribe()
		defer logger.Recover("tray")
		for {
			select {
			case <-t.stop:
				return
			case s := <-t.states:
				setChecked(mute, s.Muted)
			case <-setURL.ClickedCh:
				t.act("set url", t.setURL)
			case <-toggle.ClickedCh:
				t.act("toggle", t.host.Toggle)
			case <-mute.ClickedCh:
				t.act("mute", t.host.ToggleMute)
			case <-reload.ClickedCh:
				t.act("reload", t.host.Reload)
			case <-settings.ClickedCh:
				t.act("settings", func() error { return browser.OpenFile(t.opts.ConfigPath) })
			case <-startup.ClickedCh:
				t.toggleAutostart(startup)
			case <-about.ClickedCh:
				t.act("about", func() error { return browser.OpenURL(ProjectURL) })
			case <-quit.ClickedCh:
				log.Info().Msg("Quit requested from tray")
				if t.opts.OnQuit != nil {
					t.opts.OnQuit()
				}
				return
			}
		}
	}()
}

// offer hands the latest state to the menu loop without blocking the
// caller.
func (t *Tray) offer(s wallpaper.State) {
	select {
	case <-t.states:
	default:
	}
	select {
	case t.states <- s:
	default:
	}
}

func (t *Tray) act(name string, fn func() error) {
	if err := fn(); err != nil {
		logger.WithComponent("tray").Warn().Err(err).Str("action", name).Msg("Tray action failed")
	}
}

// setURL asks for a new address, loads it and saves it. An invalid address
// is reported to the user and nothing changes.
func (t *Tray) setURL() error {
	raw, ok, err := t.prompt("Set URL", "Enter URL (http/https/file):", t.host.State().URL)
	if err != nil {
		if errors.Is(err, notify.ErrNoPrompt) {
			t.showError("No input dialog is available. Use `webwallpaper url set` instead.")
		}
		return fmt.Errorf("failed to prompt for url: %w", err)
	}
	if !ok {
		return nil
	}

	url, err := t.host.Navigate(raw)
	if errors.Is(err, wallpaper.ErrEmptyURL) || errors.Is(err, wallpaper.ErrInvalidURL) {
		t.showError(fmt.Sprintf("Invalid URL %q: %v", raw, err))
		return nil
	}
	if err != nil {
		return err
	}
	if t.opts.SaveURL != nil {
		if err := t.opts.SaveURL(url); err != nil {
			return fmt.Errorf("failed to save url: %w", err)
		}
	}
	logger.WithComponent("tray").Info().Str("url", url).Msg("URL set from tray")
	return nil
}

func (t *Tray) toggleAutostart(item *systray.MenuItem) {
	want := !item.Checked()
	if err := autostart.Set(t.opts.Autostart, want); err != nil {
		logger.WithComponent("tray").Warn().Err(err).Bool("enabled", want).Msg("Failed to change autostart")
		notify.ShowError(fmt.Sprintf("Could not change autostart: %v", err))
		return
	}
	setChecked(item, want)
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

package wallpaper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanchriswhite/WebWallpaper/internal/desktop"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer/renderertest"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
	"github.com/bryanchriswhite/WebWallpaper/internal/window/windowtest"
)

const (
	surfaceWindow = window.Handle(0x100)
	hostWindow    = window.Handle(0x200)
)

var screen = window.Rect{Width: 1920, Height: 1080}

type fakeLocator struct {
	host  window.Handle
	found bool
	calls int
}

func (l *fakeLocator) Locate(context.Context) (window.Handle, bool) {
	l.calls++
	return l.host, l.found
}

type harness struct {
	win     *windowtest.Fake
	locator *fakeLocator
	surface *renderertest.Fake
	desktop *desktop.Static
	ctrl    *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		win:     windowtest.New().Add(surfaceWindow).Add(hostWindow),
		locator: &fakeLocator{host: hostWindow, found: true},
		surface: renderertest.New(surfaceWindow),
		desktop: &desktop.Static{Bounds: screen},
	}
	h.ctrl = New(Config{
		Window:   h.win,
		Locator:  h.locator,
		Renderer: h.surface,
		Desktop:  h.desktop,
		Bounds:   h.desktop.PrimaryBounds,
	})
	return h
}

func (h *harness) init(t *testing.T) {
	t.Helper()
	require.NoError(t, h.ctrl.Init(context.Background(), renderer.Options{
		URL:        "https://www.google.com",
		StartMuted: true,
	}))
}

func (h *harness) assertTarget(t *testing.T) {
	t.Helper()
	state := h.ctrl.State()
	attrs, err := h.win.Attributes(surfaceWindow)
	require.NoError(t, err)
	assert.Equal(t, Target(state.Mode, state.Host), attrs, "mode %s", state.Mode)
}

func TestInitEntersBackground(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	state := h.ctrl.State()
	assert.Equal(t, ModeBackground, state.Mode)
	assert.Equal(t, hostWindow, state.Host)
	assert.True(t, state.Muted)
	assert.True(t, state.Ready)
	assert.Equal(t, "https://www.google.com", state.URL)
	h.assertTarget(t)

	ws, _ := h.win.StateOf(surfaceWindow)
	assert.Equal(t, screen, ws.Bounds)
	assert.Equal(t, screen, h.surface.Options.Bounds)
	assert.Equal(t, []string{"SetClickThrough", "SetParent", "Resize", "SendToBack"}, h.win.Ops())
}

func TestRepeatedToggles(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	for i := 0; i < 100; i++ {
		require.NoError(t, h.ctrl.Toggle())
		h.assertTarget(t)
	}
	// An even number of flips lands back in the background.
	assert.Equal(t, ModeBackground, h.ctrl.State().Mode)
}

func TestTransitionsAreIdempotent(t *testing.T) {
	sequences := [][]Mode{
		{ModeBackground, ModeBackground},
		{ModeForeground, ModeForeground},
		{ModeForeground, ModeBackground, ModeBackground},
		{ModeBackground, ModeForeground, ModeForeground, ModeBackground},
		{ModeForeground, ModeForeground, ModeBackground, ModeForeground},
	}
	for _, seq := range sequences {
		h := newHarness(t)
		h.init(t)
		for _, m := range seq {
			require.NoError(t, h.ctrl.SetMode(m))
		}
		last := seq[len(seq)-1]
		assert.Equal(t, last, h.ctrl.State().Mode, "sequence %v", seq)
		h.assertTarget(t)
	}
}

func TestHostNotFoundFallsBackToForeground(t *testing.T) {
	h := newHarness(t)
	h.locator.found = false
	h.locator.host = 0
	h.init(t)

	assert.Equal(t, ModeForeground, h.ctrl.State().Mode)
	assert.Zero(t, h.ctrl.State().Host)
	h.assertTarget(t)
	for _, c := range h.win.Calls() {
		if c.Op == "SetParent" {
			assert.Equal(t, window.Handle(0), c.Arg, "no reparent to a host")
		}
	}

	// Still falls back when asked explicitly.
	require.NoError(t, h.ctrl.EnterBackground())
	assert.Equal(t, ModeForeground, h.ctrl.State().Mode)
}

func TestLocatorRunsOnEveryBackgroundTransition(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	require.NoError(t, h.ctrl.EnterForeground())
	require.NoError(t, h.ctrl.EnterBackground())
	require.NoError(t, h.ctrl.EnterBackground())
	assert.Equal(t, 3, h.locator.calls)
}

func TestHostChangesBetweenTransitions(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	newHost := window.Handle(0x300)
	h.win.Add(newHost)
	h.locator.host = newHost
	require.NoError(t, h.ctrl.EnterBackground())

	assert.Equal(t, newHost, h.ctrl.State().Host)
	h.assertTarget(t)
}

func TestForegroundRestoresTamperedState(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	// Someone else flips bits behind our back; the next transition fixes
	// them because it re-derives everything.
	h.win.Tamper(surfaceWindow, func(s *windowtest.State) {
		s.Attrs.ClickThrough = false
		s.Attrs.ZOrder = window.ZOrderTop
	})
	require.NoError(t, h.ctrl.EnterBackground())
	h.assertTarget(t)
}

func TestMute(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	assert.True(t, h.surface.Muted())

	require.NoError(t, h.ctrl.SetMuted(false))
	assert.False(t, h.ctrl.State().Muted)
	assert.False(t, h.surface.Muted())

	require.NoError(t, h.ctrl.SetMuted(true))
	assert.True(t, h.ctrl.State().Muted)

	require.NoError(t, h.ctrl.ToggleMute())
	require.NoError(t, h.ctrl.ToggleMute())
	assert.True(t, h.ctrl.State().Muted)
	assert.True(t, h.surface.Muted())

	// Muting never touches the window.
	assert.Equal(t, ModeBackground, h.ctrl.State().Mode)
	h.assertTarget(t)
}

func TestNotReadyBeforeInit(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.ctrl.SetMuted(false), ErrNotReady)
	assert.ErrorIs(t, h.ctrl.ToggleMute(), ErrNotReady)
	assert.ErrorIs(t, h.ctrl.Reload(), ErrNotReady)
	assert.ErrorIs(t, h.ctrl.Toggle(), ErrNotReady)
	_, err := h.ctrl.Navigate("example.com")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, h.win.Calls())
}

func TestSurface(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctrl.Surface()
	assert.ErrorIs(t, err, ErrNotReady)

	h.init(t)
	surface, err := h.ctrl.Surface()
	require.NoError(t, err)
	assert.Equal(t, surfaceWindow, surface)

	h.ctrl.Shutdown()
	_, err = h.ctrl.Surface()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestInitDefersBackgroundUntilSurfaceWindowExists(t *testing.T) {
	h := newHarness(t)
	h.surface.Window = 0
	h.init(t)

	state := h.ctrl.State()
	assert.True(t, state.Ready)
	assert.True(t, state.Pending)
	assert.Equal(t, ModeForeground, state.Mode)
	assert.Zero(t, state.Host)
	assert.Empty(t, h.win.Ops())

	// Still no window: the transition stays pending.
	assert.ErrorIs(t, h.ctrl.ResumeBackground(), ErrNotReady)
	assert.True(t, h.ctrl.State().Pending)

	h.surface.Window = surfaceWindow
	require.NoError(t, h.ctrl.ResumeBackground())
	state = h.ctrl.State()
	assert.False(t, state.Pending)
	assert.Equal(t, ModeBackground, state.Mode)
	assert.Equal(t, hostWindow, state.Host)
	h.assertTarget(t)

	h.win.Reset()
	require.NoError(t, h.ctrl.ResumeBackground())
	assert.Empty(t, h.win.Ops(), "nothing left to resume")
}

func TestRendererInitFailure(t *testing.T) {
	h := newHarness(t)
	h.surface.InitErr = errors.New("no runtime")

	err := h.ctrl.Init(context.Background(), renderer.Options{URL: "https://a.test"})
	require.Error(t, err)
	assert.False(t, h.ctrl.State().Ready)

	_, err = h.ctrl.Navigate("b.test")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Contains(t, err.Error(), "no runtime")

	// Shutdown still restores the wallpaper.
	h.ctrl.Shutdown()
	assert.Len(t, h.desktop.Refreshes, 1)
}

func TestNavigate(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	require.NoError(t, h.ctrl.EnterForeground())

	url, err := h.ctrl.Navigate("  example.com/page ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", url)
	assert.Equal(t, []string{"https://example.com/page"}, h.surface.Navigations)
	assert.Equal(t, url, h.ctrl.State().URL)
	assert.Equal(t, ModeForeground, h.ctrl.State().Mode)

	_, err = h.ctrl.Navigate("   ")
	assert.ErrorIs(t, err, ErrEmptyURL)
	_, err = h.ctrl.Navigate("https://")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Len(t, h.surface.Navigations, 1)
}

func TestReload(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	require.NoError(t, h.ctrl.Reload())
	assert.Equal(t, 1, h.surface.Reloads)
}

func TestFailedStepsContinue(t *testing.T) {
	h := newHarness(t)
	h.win.FailOn("SetParent", errors.New("access denied"))
	h.init(t)

	assert.Equal(t, []string{"SetClickThrough", "SetParent", "Resize", "SendToBack"}, h.win.Ops())
	state := h.ctrl.State()
	assert.Equal(t, ModeBackground, state.Mode)

	attrs, err := h.win.Attributes(surfaceWindow)
	require.NoError(t, err)
	assert.True(t, attrs.ClickThrough)
	assert.Equal(t, window.ZOrderBottom, attrs.ZOrder)
	assert.Zero(t, attrs.Parent)
}

func TestShutdown(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.win.Reset()

	h.ctrl.Shutdown()
	assert.Equal(t, []string{"SetParent", "Hide"}, h.win.Ops())
	assert.Equal(t, []window.Handle{hostWindow}, h.desktop.Refreshes)
	assert.True(t, h.surface.Closed)

	ws, _ := h.win.StateOf(surfaceWindow)
	first := h.ctrl.State()
	assert.True(t, first.Closed)
	assert.False(t, first.Ready)
	assert.Zero(t, ws.Attrs.Parent)
	assert.False(t, ws.Visible)

	h.ctrl.Shutdown()
	assert.Equal(t, first, h.ctrl.State())
	assert.Len(t, h.desktop.Refreshes, 1)
	assert.Equal(t, 1, h.surface.CloseCalls)
	assert.ErrorIs(t, h.ctrl.Toggle(), ErrNotReady)
}

func TestShutdownFromForegroundStillRefreshes(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	require.NoError(t, h.ctrl.EnterForeground())

	h.ctrl.Shutdown()
	assert.Equal(t, []window.Handle{0}, h.desktop.Refreshes)
}

func TestShutdownContinuesAfterFailures(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.win.Destroy(surfaceWindow)

	h.ctrl.Shutdown()
	assert.Len(t, h.desktop.Refreshes, 1)
	assert.True(t, h.surface.Closed)
}

type panickingRefresher struct {
	calls int
}

func (r *panickingRefresher) RefreshWallpaper(window.Handle) error {
	r.calls++
	panic("refresh blew up")
}

func TestShutdownSurvivesPanickingSteps(t *testing.T) {
	h := newHarness(t)
	refresher := &panickingRefresher{}
	h.ctrl.desktop = refresher
	h.init(t)

	var last State
	h.ctrl.Subscribe(func(State) { panic("subscriber blew up") })
	h.ctrl.Subscribe(func(s State) { last = s })

	assert.NotPanics(t, h.ctrl.Shutdown)
	assert.Equal(t, 1, refresher.calls)
	assert.True(t, h.surface.Closed)
	assert.Equal(t, 1, h.surface.CloseCalls)
	assert.True(t, last.Closed)

	h.ctrl.Shutdown()
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, 1, h.surface.CloseCalls)
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)
	var got []State
	unsubscribe := h.ctrl.Subscribe(func(s State) { got = append(got, s) })

	h.init(t)
	require.NoError(t, h.ctrl.Toggle())
	require.NoError(t, h.ctrl.ToggleMute())
	require.Len(t, got, 3)
	assert.Equal(t, ModeBackground, got[0].Mode)
	assert.Equal(t, ModeForeground, got[1].Mode)
	assert.False(t, got[2].Muted)

	unsubscribe()
	require.NoError(t, h.ctrl.Toggle())
	assert.Len(t, got, 3)
}

func TestEndToEndScenario(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	// Start: wallpaper, muted.
	h.assertTarget(t)
	assert.True(t, h.ctrl.State().Muted)

	// User makes it interactive, unmutes and browses somewhere else.
	require.NoError(t, h.ctrl.Toggle())
	ws, _ := h.win.StateOf(surfaceWindow)
	assert.True(t, ws.Focused)
	require.NoError(t, h.ctrl.ToggleMute())
	_, err := h.ctrl.Navigate("example.org")
	require.NoError(t, err)
	h.assertTarget(t)

	// Back to wallpaper.
	require.NoError(t, h.ctrl.Toggle())
	h.assertTarget(t)
	ws, _ = h.win.StateOf(surfaceWindow)
	assert.False(t, ws.Focused)

	state := h.ctrl.State()
	assert.Equal(t, ModeBackground, state.Mode)
	assert.False(t, state.Muted)
	assert.Equal(t, "https://example.org", state.URL)

	h.ctrl.Shutdown()
	assert.True(t, h.ctrl.State().Closed)
}

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanchriswhite/WebWallpaper/internal/capture"
	"github.com/bryanchriswhite/WebWallpaper/internal/config"
	"github.com/bryanchriswhite/WebWallpaper/internal/desktop"
	"github.com/bryanchriswhite/WebWallpaper/internal/navurl"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer"
	"github.com/bryanchriswhite/WebWallpaper/internal/renderer/renderertest"
	"github.com/bryanchriswhite/WebWallpaper/internal/uithread"
	"github.com/bryanchriswhite/WebWallpaper/internal/wallpaper"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
	"github.com/bryanchriswhite/WebWallpaper/internal/window/windowtest"
)

type staticLocator struct{ host window.Handle }

func (l staticLocator) Locate(context.Context) (window.Handle, bool) {
	return l.host, l.host != 0
}

type memSettings struct {
	mu  sync.Mutex
	url string
}

func (s *memSettings) SetURL(raw string) (string, error) {
	u, err := navurl.Parse(raw)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.url = u
	s.mu.Unlock()
	return u, nil
}

func (s *memSettings) Get() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := config.Defaults()
	if s.url != "" {
		cfg.URL = s.url
	}
	return cfg
}

type fakeCapturer struct {
	mu       sync.Mutex
	captured []window.Handle
}

func (c *fakeCapturer) Name() string { return "fake" }

func (c *fakeCapturer) Capture(h window.Handle) (*image.RGBA, error) {
	c.mu.Lock()
	c.captured = append(c.captured, h)
	c.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, 32, 18)), nil
}

type fixture struct {
	srv      *Server
	host     *wallpaper.Host
	settings *memSettings
	surface  *renderertest.Fake
	ts       *httptest.Server
	client   *Client
}

func newFixture(t *testing.T, initialize bool) *fixture {
	t.Helper()

	surface := renderertest.New(0x100)
	ctrl := wallpaper.New(wallpaper.Config{
		Window:   windowtest.New().Add(0x100).Add(0x200),
		Locator:  staticLocator{host: 0x200},
		Renderer: surface,
		Desktop:  &desktop.Static{},
	})
	loop := uithread.NewLoop(0)
	t.Cleanup(loop.Stop)
	host := wallpaper.NewHost(ctrl, loop.Thread)

	if initialize {
		require.NoError(t, loop.Call(func() error {
			return ctrl.Init(context.Background(), renderer.Options{URL: navurl.DefaultURL, StartMuted: true})
		}))
	}

	settings := &memSettings{}
	srv := NewServer(host, settings)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	port := ts.Listener.Addr().(*net.TCPAddr).Port
	return &fixture{
		srv:      srv,
		host:     host,
		settings: settings,
		surface:  surface,
		ts:       ts,
		client:   NewClient(port),
	}
}

func TestStateAndToggle(t *testing.T) {
	f := newFixture(t, true)

	state, err := f.client.State()
	require.NoError(t, err)
	assert.Equal(t, wallpaper.ModeBackground, state.Mode)
	assert.True(t, state.Muted)
	assert.Equal(t, window.Handle(0x200), state.Host)

	state, err = f.client.Toggle()
	require.NoError(t, err)
	assert.Equal(t, wallpaper.ModeForeground, state.Mode)

	state, err = f.client.SetMode(wallpaper.ModeBackground)
	require.NoError(t, err)
	assert.Equal(t, wallpaper.ModeBackground, state.Mode)
}

func TestMuteEndpoints(t *testing.T) {
	f := newFixture(t, true)

	state, err := f.client.SetMuted(false)
	require.NoError(t, err)
	assert.False(t, state.Muted)
	assert.False(t, f.surface.Muted())

	state, err = f.client.ToggleMute()
	require.NoError(t, err)
	assert.True(t, state.Muted)

	resp, err := http.Post(f.ts.URL+"/api/mute", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNavigatePersists(t *testing.T) {
	f := newFixture(t, true)

	state, err := f.client.Navigate("example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", state.URL)
	assert.Equal(t, "https://example.com", f.settings.Get().URL)
	assert.Equal(t, []string{"https://example.com"}, f.surface.Navigations)

	_, err = f.client.Navigate("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestReload(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.client.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, f.surface.Reloads)
}

func TestNotReady(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.client.Toggle()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	_, err = f.client.Navigate("example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Empty(t, f.settings.url)
}

func TestBadMode(t *testing.T) {
	f := newFixture(t, true)
	resp, err := http.Post(f.ts.URL+"/api/mode/sideways", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRejectsCrossOrigin(t *testing.T) {
	f := newFixture(t, true)
	req, err := http.NewRequest(http.MethodPost, f.ts.URL+"/api/toggle", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, wallpaper.ModeBackground, f.host.State().Mode)
}

func TestHealthAndConfig(t *testing.T) {
	f := newFixture(t, true)
	version, err := f.client.Health()
	require.NoError(t, err)
	assert.Equal(t, Version, version)

	resp, err := http.Get(f.ts.URL + "/api/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	var cfg config.Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, navurl.DefaultURL, cfg.URL)
}

func TestStateStream(t *testing.T) {
	f := newFixture(t, true)

	wsURL := "ws" + strings.TrimPrefix(f.ts.URL, "http") + "/api/state/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var state wallpaper.State
	require.NoError(t, conn.ReadJSON(&state))
	assert.Equal(t, wallpaper.ModeBackground, state.Mode)

	// A burst of changes arrives as the final state.
	require.NoError(t, f.host.Toggle())
	require.NoError(t, f.host.ToggleMute())
	for {
		require.NoError(t, conn.ReadJSON(&state))
		if state.Mode == wallpaper.ModeForeground && !state.Muted {
			break
		}
	}
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, true)

	data, err := f.client.Snapshot(capture.FormatPNG, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "501")

	capturer := &fakeCapturer{}
	f.srv.SetCapturer(capturer)

	data, err = f.client.Snapshot(capture.FormatPNG, 0, false)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)

	data, err = f.client.Snapshot(capture.FormatJPEG, 60, true)
	require.NoError(t, err)
	_, err = jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []window.Handle{0x100, 0x100}, capturer.captured)

	resp, err := http.Get(f.ts.URL + "/api/snapshot?format=gif")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSnapshotNotReady(t *testing.T) {
	f := newFixture(t, false)
	f.srv.SetCapturer(&fakeCapturer{})

	_, err := f.client.Snapshot(capture.FormatPNG, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestPreview(t *testing.T) {
	f := newFixture(t, true)
	f.srv.SetCapturer(&fakeCapturer{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ts.URL+"/api/preview", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "multipart/x-mixed-replace")

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "--frame\r\n", line)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "background | muted | https://a.test", statusLine(wallpaper.State{
		Mode: wallpaper.ModeBackground, Muted: true, URL: "https://a.test",
	}))
	assert.Equal(t, "foreground | sound on | https://a.test", statusLine(wallpaper.State{
		Mode: wallpaper.ModeForeground, URL: "https://a.test",
	}))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(wallpaper.ErrEmptyURL))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(uithread.ErrStopped))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestClientNotRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = NewClient(port).State()
	assert.ErrorIs(t, err, ErrNotRunning)
}

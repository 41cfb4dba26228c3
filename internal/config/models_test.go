package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanchriswhite/WebWallpaper/internal/navurl"
)

func TestMissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	m, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, navurl.DefaultURL, m.GetURL())
	assert.True(t, m.Get().StartMuted)
	assert.Equal(t, DefaultPort, m.GetPort())
	assert.Equal(t, "Ctrl+Alt+W", m.Get().Hotkeys.Toggle)
	assert.FileExists(t, path)
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	garbage := []byte("url: [unterminated\n\t::")
	require.NoError(t, os.WriteFile(path, garbage, 0644))

	m, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, navurl.DefaultURL, m.GetURL())

	// The user's file is left untouched.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: example.com\nlocator_timeout: 250ms\n"), 0644))

	m, err := NewManager(path)
	require.NoError(t, err)
	cfg := m.Get()
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.LocatorTimeout)
	assert.True(t, cfg.StartMuted)
	assert.Equal(t, "Ctrl+Alt+M", cfg.Hotkeys.Mute)
	assert.Equal(t, DefaultPort, cfg.API.Port)
}

func TestSetURLPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	require.NoError(t, err)

	got, err := m.SetURL("  news.ycombinator.com ")
	require.NoError(t, err)
	assert.Equal(t, "https://news.ycombinator.com", got)

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, "https://news.ycombinator.com", reloaded.GetURL())

	_, err = m.SetURL("")
	assert.ErrorIs(t, err, navurl.ErrEmpty)
	assert.Equal(t, "https://news.ycombinator.com", m.GetURL())
}

func TestGetReturnsCopy(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	cfg := m.Get()
	cfg.URL = "https://changed.test"
	assert.Equal(t, navurl.DefaultURL, m.GetURL())
}

func TestValueAndSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	require.NoError(t, err)

	require.NoError(t, m.SetValue("api.port", "9000"))
	require.NoError(t, m.SetValue("start_muted", "false"))
	require.NoError(t, m.SetValue("locator_timeout", "2s"))
	require.NoError(t, m.SetValue("hotkeys.toggle", "Ctrl+Shift+F12"))

	port, err := m.Value("api.port")
	require.NoError(t, err)
	assert.EqualValues(t, 9000, port)

	muted, err := m.Value("start_muted")
	require.NoError(t, err)
	assert.Equal(t, false, muted)

	cfg := m.Get()
	assert.Equal(t, 2*time.Second, cfg.LocatorTimeout)
	assert.Equal(t, "Ctrl+Shift+F12", cfg.Hotkeys.Toggle)

	assert.Error(t, m.SetValue("api.port", "70000"))
	assert.Error(t, m.SetValue("log_level", "loud"))
	assert.Error(t, m.SetValue("nope", "1"))
	_, err = m.Value("nope")
	assert.Error(t, err)
	assert.Equal(t, 9000, m.GetPort())
}

func TestWatchReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan [2]string, 4)
	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, func(old, updated *Config) {
			changes <- [2]string{old.URL, updated.URL}
		})
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("url: example.org\n"), 0644))

	select {
	case c := <-changes:
		assert.Equal(t, navurl.DefaultURL, c[0])
		assert.Equal(t, "https://example.org", c[1])
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	assert.Equal(t, "https://example.org", m.GetURL())

	cancel()
	assert.NoError(t, <-done)
}

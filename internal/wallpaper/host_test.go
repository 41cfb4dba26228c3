package wallpaper

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanchriswhite/WebWallpaper/internal/renderer"
	"github.com/bryanchriswhite/WebWallpaper/internal/uithread"
)

func TestHostMarshalsOntoOwner(t *testing.T) {
	h := newHarness(t)
	loop := uithread.NewLoop(0)
	defer loop.Stop()
	host := NewHost(h.ctrl, loop.Thread)

	require.NoError(t, loop.Call(func() error {
		return h.ctrl.Init(context.Background(), renderer.Options{URL: "https://www.google.com", StartMuted: true})
	}))

	var onOwner []bool
	h.ctrl.Subscribe(func(State) { onOwner = append(onOwner, loop.IsOwner()) })

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, host.Toggle())
		}()
	}
	wg.Wait()

	require.NoError(t, loop.Call(func() error { return nil }))
	assert.Len(t, onOwner, 10)
	for _, ok := range onOwner {
		assert.True(t, ok)
	}
	assert.Equal(t, ModeBackground, host.State().Mode)
	h.assertTarget(t)

	url, err := host.Navigate("example.net")
	require.NoError(t, err)
	assert.Equal(t, "https://example.net", url)

	require.NoError(t, host.SetMode(ModeForeground))
	require.NoError(t, host.SetMuted(false))
	assert.False(t, host.State().Muted)

	host.Shutdown()
	host.Shutdown()
	assert.True(t, host.State().Closed)
	assert.Len(t, h.desktop.Refreshes, 1)
}

func TestHostShutdownWithoutOwner(t *testing.T) {
	h := newHarness(t)
	loop := uithread.NewLoop(0)
	host := NewHost(h.ctrl, loop.Thread)
	loop.Stop()

	host.Shutdown()
	assert.True(t, host.State().Closed)
	assert.Len(t, h.desktop.Refreshes, 1)
}

package api

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/bryanchriswhite/WebWallpaper/internal/wallpaper"
)

// hub fans state changes out to websocket clients. Bursts of changes are
// coalesced into one update carrying the latest state.
type hub struct {
	host Host

	mu        sync.Mutex
	clients   map[chan wallpaper.State]struct{}
	debounced func(func())
	cancel    func()
}

func newHub(host Host) *hub {
	return &hub{
		host:      host,
		clients:   make(map[chan wallpaper.State]struct{}),
		debounced: debounce.New(50 * time.Millisecond),
	}
}

func (h *hub) start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return
	}
	h.cancel = h.host.Subscribe(func(wallpaper.State) {
		h.debounced(h.broadcast)
	})
}

func (h *hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	for c := range h.clients {
		close(c)
		delete(h.clients, c)
	}
}

func (h *hub) subscribe() chan wallpaper.State {
	c := make(chan wallpaper.State, 1)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *hub) unsubscribe(c chan wallpaper.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c)
	}
}

// broadcast sends the current state, replacing any update a slow client
// has not read yet.
func (h *hub) broadcast() {
	state := h.host.State()
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case <-c:
		default:
		}
		c <- state
	}
}

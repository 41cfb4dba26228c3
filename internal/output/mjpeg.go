package output

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

// MJPEG streams frames as Motion JPEG over HTTP. Frames are only captured
// while a client is watching, and every client shares the same frames.
type MJPEG struct {
	source Source
	config Config

	clientsMu sync.Mutex
	clients   map[chan []byte]struct{}
	cancel    context.CancelFunc

	frameCount atomic.Uint64
}

// NewMJPEG creates a stream that pulls frames from source.
func NewMJPEG(source Source, config Config) *MJPEG {
	def := DefaultConfig()
	if config.FPS <= 0 {
		config.FPS = def.FPS
	}
	if config.Quality < 1 || config.Quality > 100 {
		config.Quality = def.Quality
	}
	return &MJPEG{
		source:  source,
		config:  config,
		clients: make(map[chan []byte]struct{}),
	}
}

// Clients returns the number of connected viewers.
func (m *MJPEG) Clients() int {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()
	return len(m.clients)
}

// FrameCount returns the number of frames encoded so far.
func (m *MJPEG) FrameCount() uint64 {
	return m.frameCount.Load()
}

// Stop disconnects every client and stops capturing.
func (m *MJPEG) Stop() {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()
	for ch := range m.clients {
		close(ch)
	}
	m.clients = make(map[chan []byte]struct{})
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *MJPEG) register() chan []byte {
	ch := make(chan []byte, 2) // Buffer 2 frames

	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()
	m.clients[ch] = struct{}{}
	if m.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		go m.produce(ctx)
	}
	logger.WithComponent("preview").Debug().Int("clients", len(m.clients)).Msg("Preview client connected")
	return ch
}

func (m *MJPEG) unregister(ch chan []byte) {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()
	delete(m.clients, ch)
	if len(m.clients) == 0 && m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	logger.WithComponent("preview").Debug().Int("clients", len(m.clients)).Msg("Preview client disconnected")
}

// produce captures at the configured rate until ctx is cancelled.
func (m *MJPEG) produce(ctx context.Context) {
	defer logger.Recover("preview")
	log := logger.WithComponent("preview")

	ticker := time.NewTicker(time.Second / time.Duration(m.config.FPS))
	defer ticker.Stop()

	var buf bytes.Buffer
	for {
		frame, err := m.source()
		if err != nil {
			log.Debug().Err(err).Msg("Frame capture failed")
		} else {
			buf.Reset()
			if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: m.config.Quality}); err != nil {
				log.Warn().Err(err).Msg("Frame encode failed")
			} else {
				m.frameCount.Add(1)
				m.broadcast(append([]byte(nil), buf.Bytes()...))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// broadcast hands data to every client, dropping it for clients that are
// still busy with earlier frames.
func (m *MJPEG) broadcast(data []byte) {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()
	for ch := range m.clients {
		select {
		case ch <- data:
		default:
		}
	}
}

// ServeHTTP streams frames until the client goes away or Stop is called.
func (m *MJPEG) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Set headers for MJPEG stream
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("Connection", "close")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	frames := m.register()
	defer m.unregister(frames)

	for {
		select {
		case <-r.Context().Done():
			return
		case jpegData, ok := <-frames:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpegData)); err != nil {
				return
			}
			if _, err := w.Write(jpegData); err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/bryanchriswhite/WebWallpaper/internal/capture"
	"github.com/bryanchriswhite/WebWallpaper/internal/config"
	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/output"
	"github.com/bryanchriswhite/WebWallpaper/internal/overlay"
	"github.com/bryanchriswhite/WebWallpaper/internal/uithread"
	"github.com/bryanchriswhite/WebWallpaper/internal/wallpaper"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Host is the wallpaper as seen by the API.
type Host interface {
	State() wallpaper.State
	Toggle() error
	SetMode(mode wallpaper.Mode) error
	SetMuted(muted bool) error
	ToggleMute() error
	Reload() error
	Navigate(raw string) (string, error)
	Surface() (window.Handle, error)
	Subscribe(fn func(wallpaper.State)) func()
}

// Settings persists the wallpaper address and exposes the configuration.
type Settings interface {
	SetURL(raw string) (string, error)
	Get() *config.Config
}

// Server represents the local control API server
type Server struct {
	router   *mux.Router
	host     Host
	settings Settings
	hub      *hub
	upgrader websocket.Upgrader

	capturer capture.Capturer
	preview  *output.MJPEG
}

// NewServer creates a new API server
func NewServer(host Host, settings Settings) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		host:     host,
		settings: settings,
		hub:      newHub(host),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return r.Header.Get("Origin") == ""
			},
		},
	}

	s.setupRoutes()
	s.hub.start()
	return s
}

// SetCapturer enables the snapshot and preview endpoints.
func (s *Server) SetCapturer(c capture.Capturer) {
	s.capturer = c
	s.preview = output.NewMJPEG(func() (*image.RGBA, error) {
		return s.captureSurface(true)
	}, output.DefaultConfig())
}

// Close disconnects stream clients and stops observing the host.
func (s *Server) Close() {
	s.hub.stop()
	if s.preview != nil {
		s.preview.Stop()
	}
}

// captureSurface grabs the surface, optionally labelled with the state.
func (s *Server) captureSurface(caption bool) (*image.RGBA, error) {
	surface, err := s.host.Surface()
	if err != nil {
		return nil, err
	}
	img, err := s.capturer.Capture(surface)
	if err != nil {
		return nil, err
	}
	if caption {
		overlay.NewCaption(statusLine(s.host.State())).Render(img)
	}
	return img, nil
}

func statusLine(state wallpaper.State) string {
	sound := "sound on"
	if state.Muted {
		sound = "muted"
	}
	return fmt.Sprintf("%s | %s | %s", state.Mode, sound, state.URL)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Wallpaper state
	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/state/stream", s.handleStateStream)
	api.HandleFunc("/toggle", s.handleToggle).Methods("POST")
	api.HandleFunc("/mode/{mode}", s.handleSetMode).Methods("POST")

	// Page
	api.HandleFunc("/mute", s.handleSetMuted).Methods("POST")
	api.HandleFunc("/mute/toggle", s.handleToggleMute).Methods("POST")
	api.HandleFunc("/reload", s.handleReload).Methods("POST")
	api.HandleFunc("/navigate", s.handleNavigate).Methods("POST")
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods("GET")
	api.HandleFunc("/preview", s.handlePreview).Methods("GET")

	// Configuration
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")

	// Health check
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.rejectCrossOrigin(s.router)
}

// Start serves on the loopback interface until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.WithComponent("api").Info().Str("addr", addr).Msg("Starting control API")
	defer s.Close()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// rejectCrossOrigin refuses requests sent by web pages. Local tools do not
// set Origin.
func (s *Server) rejectCrossOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "" {
			writeError(w, http.StatusForbidden, errors.New("cross-origin requests are not allowed"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps wallpaper errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, wallpaper.ErrEmptyURL), errors.Is(err, wallpaper.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, wallpaper.ErrNotReady), errors.Is(err, uithread.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respond writes the state after a successful action.
func (s *Server) respond(w http.ResponseWriter, action string, err error) {
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Str("action", action).Msg("Action failed")
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.host.State())
}

// HTTP Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.host.State())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "toggle", s.host.Toggle())
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	mode, err := wallpaper.ParseMode(mux.Vars(r)["mode"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respond(w, "mode", s.host.SetMode(mode))
}

func (s *Server) handleSetMuted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Muted *bool `json:"muted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Muted == nil {
		writeError(w, http.StatusBadRequest, errors.New("missing field: muted"))
		return
	}
	s.respond(w, "mute", s.host.SetMuted(*req.Muted))
}

func (s *Server) handleToggleMute(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "toggle-mute", s.host.ToggleMute())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.respond(w, "reload", s.host.Reload())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	url, err := s.host.Navigate(req.URL)
	if err != nil {
		s.respond(w, "navigate", err)
		return
	}
	if s.settings != nil {
		if _, err := s.settings.SetURL(url); err != nil {
			logger.WithComponent("api").Warn().Err(err).Str("url", url).Msg("Failed to persist URL")
		}
	}
	s.respond(w, "navigate", nil)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.capturer == nil {
		writeError(w, http.StatusNotImplemented, errors.New("window capture is not available"))
		return
	}
	format, err := capture.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	quality := 0
	if q := r.URL.Query().Get("quality"); q != "" {
		if quality, err = strconv.Atoi(q); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid quality: %w", err))
			return
		}
	}
	caption := false
	if c := r.URL.Query().Get("caption"); c != "" {
		if caption, err = strconv.ParseBool(c); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid caption: %w", err))
			return
		}
	}

	img, err := s.captureSurface(caption)
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Msg("Snapshot failed")
		writeError(w, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := capture.Encode(&buf, img, format, quality); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.preview == nil {
		writeError(w, http.StatusNotImplemented, errors.New("window capture is not available"))
		return
	}
	s.preview.ServeHTTP(w, r)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeError(w, http.StatusNotFound, errors.New("no configuration"))
		return
	}
	writeJSON(w, http.StatusOK, s.settings.Get())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}

func (s *Server) handleStateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}
	defer conn.Close()

	updates := s.hub.subscribe()
	defer s.hub.unsubscribe(updates)

	// Detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(s.host.State()); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(state); err != nil {
				logger.WithComponent("api").Debug().Err(err).Msg("WebSocket write error")
				return
			}
		}
	}
}

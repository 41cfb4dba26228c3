package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bryanchriswhite/WebWallpaper/internal/capture"
	"github.com/bryanchriswhite/WebWallpaper/internal/wallpaper"
)

// ErrNotRunning is returned when no instance answers on the API port.
var ErrNotRunning = errors.New("webwallpaper is not running")

// Client drives a running instance through the control API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the instance listening on port.
func NewClient(port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	switch out := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*out, err = io.ReadAll(resp.Body)
		return err
	default:
		return json.NewDecoder(resp.Body).Decode(out)
	}
}

func (c *Client) state(method, path string, body interface{}) (wallpaper.State, error) {
	var s wallpaper.State
	err := c.do(method, path, body, &s)
	return s, err
}

// State returns the wallpaper state.
func (c *Client) State() (wallpaper.State, error) {
	return c.state(http.MethodGet, "/api/state", nil)
}

// Toggle flips between wallpaper and interactive mode.
func (c *Client) Toggle() (wallpaper.State, error) {
	return c.state(http.MethodPost, "/api/toggle", nil)
}

// SetMode switches to mode.
func (c *Client) SetMode(mode wallpaper.Mode) (wallpaper.State, error) {
	return c.state(http.MethodPost, "/api/mode/"+mode.String(), nil)
}

// SetMuted mutes or unmutes the page.
func (c *Client) SetMuted(muted bool) (wallpaper.State, error) {
	return c.state(http.MethodPost, "/api/mute", map[string]bool{"muted": muted})
}

// ToggleMute flips the muted flag.
func (c *Client) ToggleMute() (wallpaper.State, error) {
	return c.state(http.MethodPost, "/api/mute/toggle", nil)
}

// Reload reloads the page.
func (c *Client) Reload() (wallpaper.State, error) {
	return c.state(http.MethodPost, "/api/reload", nil)
}

// Navigate loads raw, which is normalized by the server.
func (c *Client) Navigate(raw string) (wallpaper.State, error) {
	return c.state(http.MethodPost, "/api/navigate", map[string]string{"url": raw})
}

// Snapshot returns the encoded image of the wallpaper surface, with a
// status caption when caption is set.
func (c *Client) Snapshot(format capture.Format, quality int, caption bool) ([]byte, error) {
	path := fmt.Sprintf("/api/snapshot?format=%s&caption=%t", format, caption)
	if quality > 0 {
		path += fmt.Sprintf("&quality=%d", quality)
	}
	var data []byte
	err := c.do(http.MethodGet, path, nil, &data)
	return data, err
}

// Health returns the server version.
func (c *Client) Health() (string, error) {
	var resp struct {
		Version string `json:"version"`
	}
	err := c.do(http.MethodGet, "/api/health", nil, &resp)
	return resp.Version, err
}

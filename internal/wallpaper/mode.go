package wallpaper

import (
	"fmt"
	"strings"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// Mode is how the surface is presented.
type Mode int

const (
	// ModeBackground embeds the surface as a non-interactive wallpaper.
	ModeBackground Mode = iota
	// ModeForeground floats the surface as an ordinary interactive window.
	ModeForeground
)

func (m Mode) String() string {
	switch m {
	case ModeBackground:
		return "background"
	case ModeForeground:
		return "foreground"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode accepts "background"/"foreground" and their short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background", "bg", "wallpaper":
		return ModeBackground, nil
	case "foreground", "fg", "interactive":
		return ModeForeground, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Target is the attribute set the surface must have in mode. host is
// ignored in the foreground.
func Target(mode Mode, host window.Handle) window.AttributeSet {
	if mode == ModeBackground {
		return window.Embedded(host)
	}
	return window.Floating()
}

// State is a snapshot of the controller.
type State struct {
	Mode    Mode          `json:"mode"`
	Muted   bool          `json:"muted"`
	URL     string        `json:"url"`
	Host    window.Handle `json:"host"`
	Pending bool          `json:"pending,omitempty"` // first background transition still waiting for the surface window
	Ready   bool          `json:"ready"`
	Closed  bool          `json:"closed"`
}

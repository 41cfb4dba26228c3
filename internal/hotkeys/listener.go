package hotkeys

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

// errLoopExited is returned when a listener loop ends before reporting its
// registration result.
var errLoopExited = errors.New("hotkey loop exited during registration")

// awaitStart waits for a listener loop to report its registration result,
// or to end without one.
func awaitStart(started <-chan error, done <-chan struct{}) error {
	select {
	case err := <-started:
		return err
	case <-done:
		select {
		case err := <-started:
			return err
		default:
			return errLoopExited
		}
	}
}

// Listener delivers global key presses to a Dispatcher.
type Listener interface {
	// Register grabs every binding. Bindings that fail are reported in the
	// returned error and the rest stay active.
	Register(bindings []Binding) error
	// Close releases every grab and stops the listener.
	Close() error
}

// Bindings parses the configured combinations. Empty strings are skipped.
func Bindings(combos map[ID]string) ([]Binding, error) {
	var result *multierror.Error
	var out []Binding
	for _, id := range []ID{ToggleInteractive, ToggleMute, Reload} {
		s, ok := combos[id]
		if !ok || s == "" {
			continue
		}
		c, err := ParseCombo(s)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", id, err))
			continue
		}
		out = append(out, Binding{ID: id, Combo: c})
	}
	return out, result.ErrorOrNil()
}

func logRegistered(b Binding) {
	logger.WithComponent("hotkeys").Info().
		Stringer("hotkey", b.ID).
		Stringer("combo", b.Combo).
		Msg("Hotkey registered")
}

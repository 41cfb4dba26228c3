// Package notify shows messages for actions the user explicitly took.
package notify

import (
	"errors"
	"strings"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

// ErrNoPrompt is returned when the desktop has no way to ask for input.
var ErrNoPrompt = errors.New("no input dialog available")

// Title prefixes every message.
const Title = "WebWallpaper"

// Level is the severity of a message.
type Level int

const (
	Info Level = iota
	Error
)

// ShowError shows an error message and logs it.
func ShowError(message string) {
	logger.WithComponent("notify").Warn().Str("message", message).Msg("Showing error to user")
	if err := show(Error, message); err != nil {
		logger.WithComponent("notify").Debug().Err(err).Msg("Notification failed")
	}
}

// ShowInfo shows an informational message.
func ShowInfo(message string) {
	if err := show(Info, message); err != nil {
		logger.WithComponent("notify").Debug().Err(err).Msg("Notification failed")
	}
}

// Prompt asks for one line of text, prefilled with initial. ok is false when
// the user cancelled or left the field blank.
func Prompt(title, label, initial string) (text string, ok bool, err error) {
	text, ok, err = prompt(title, label, initial)
	if err != nil || !ok {
		return "", false, err
	}
	text = strings.TrimSpace(text)
	return text, text != "", nil
}

// Package navurl normalizes user supplied wallpaper addresses.
package navurl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultURL is used when no address has been configured.
const DefaultURL = "https://www.google.com"

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("empty url")
	// ErrInvalid is returned when the normalized address does not parse.
	ErrInvalid = errors.New("invalid url")
)

var schemes = []string{"http://", "https://", "file:///"}

// Normalize trims raw and prepends https:// unless it already starts with
// http://, https:// or file:/// (case-insensitive). Blank input is returned
// as an empty string.
func Normalize(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	for _, s := range schemes {
		if strings.HasPrefix(lower, s) {
			return u
		}
	}
	return "https://" + u
}

// Parse normalizes raw and checks that the result is an absolute URL with a
// host (or a file path for file:///).
func Parse(raw string) (string, error) {
	u := Normalize(raw)
	if u == "" {
		return "", ErrEmpty
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if strings.EqualFold(parsed.Scheme, "file") {
		if parsed.Path == "" {
			return "", fmt.Errorf("%w: missing file path", ErrInvalid)
		}
		return u, nil
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalid)
	}
	return u, nil
}

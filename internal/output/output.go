// Package output streams captured frames to HTTP clients.
package output

import (
	"image"
)

// Source produces the next frame on demand.
type Source func() (*image.RGBA, error)

// Config holds the stream settings
type Config struct {
	// FPS is the capture rate while at least one client is connected.
	FPS int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// DefaultConfig suits a low-cost preview of a mostly static page.
func DefaultConfig() Config {
	return Config{FPS: 2, Quality: 70}
}

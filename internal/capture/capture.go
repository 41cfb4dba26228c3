// Package capture grabs the rendered pixels of a window.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// ErrEmptyWindow is returned for windows with no visible area.
var ErrEmptyWindow = errors.New("window has no visible area")

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 85

// Capturer defines the interface for window capture backends
type Capturer interface {
	// Capture returns the current contents of h.
	Capture(h window.Handle) (*image.RGBA, error)

	// Name returns a human-readable name for this capturer
	Name() string
}

// Format is an image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts png, jpeg and jpg. Empty means png.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q (use png or jpeg)", s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img as f. quality only applies to JPEG; values outside
// 1-100 mean DefaultQuality.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case FormatJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatPNG, "":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", f)
	}
}

// fromBGRA converts 32-bit BGRX rows, as returned by both X11 ZPixmap
// images and Windows DIBs, to opaque RGBA.
func fromBGRA(data []byte, width, height, stride int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyWindow
	}
	if stride < width*4 || len(data) < stride*(height-1)+width*4 {
		return nil, fmt.Errorf("short image data: %d bytes for %dx%d", len(data), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := data[y*stride : y*stride+width*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for i := 0; i < len(src); i += 4 {
			dst[i] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i]
			dst[i+3] = 0xff
		}
	}
	return img, nil
}

package window

import "fmt"

// Handle is an opaque OS window identifier. Zero means "no window".
//
// A Handle is a loan from the OS: it is only valid between the creation and
// the destruction of the underlying window.
type Handle uintptr

// String formats the handle the way Win32 tools print HWNDs.
func (h Handle) String() string {
	return fmt.Sprintf("0x%X", uintptr(h))
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ZOrder is the position of a window among its siblings.
type ZOrder int

const (
	// ZOrderUnknown means the window is neither at the top nor at the bottom,
	// or its position could not be read.
	ZOrderUnknown ZOrder = iota
	ZOrderTop
	ZOrderBottom
)

func (z ZOrder) String() string {
	switch z {
	case ZOrderTop:
		return "top"
	case ZOrderBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// MarshalText encodes the z-order by name.
func (z ZOrder) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// AttributeSet is the observable attribute state of one window.
type AttributeSet struct {
	ClickThrough         bool   `json:"click_through"`
	ActivationSuppressed bool   `json:"activation_suppressed"`
	Parent               Handle `json:"parent"`
	ZOrder               ZOrder `json:"z_order"`
}

// Embedded returns the attribute set of a window hosted as wallpaper under
// host.
func Embedded(host Handle) AttributeSet {
	return AttributeSet{
		ClickThrough:         true,
		ActivationSuppressed: true,
		Parent:               host,
		ZOrder:               ZOrderBottom,
	}
}

// Floating returns the attribute set of an interactive top-level window.
func Floating() AttributeSet {
	return AttributeSet{ZOrder: ZOrderTop}
}

package window

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/x11"
)

const (
	// WM_HINTS is nine CARD32s; flags first, input second.
	wmHintsLen       = 9
	wmHintsInputFlag = 1
)

// X11 implements Controller on an X server. Click-through is an empty
// SHAPE input region and activation suppression is the WM_HINTS input
// field.
type X11 struct {
	x *x11.Connection
}

var _ Controller = (*X11)(nil)

// NewX11 creates an X11 controller on an open connection.
func NewX11(conn *x11.Connection) *X11 {
	return &X11{x: conn}
}

// Name returns the backend name
func (b *X11) Name() string {
	return "x11"
}

func xwin(h Handle) xproto.Window { return xproto.Window(h) }

func (b *X11) check(op string, h Handle) error {
	if h == 0 {
		return NewOpError(op, h, KindInvalidHandle, nil)
	}
	if _, err := xproto.GetWindowAttributes(b.x.Conn, xwin(h)).Reply(); err != nil {
		return NewOpError(op, h, KindInvalidHandle, err)
	}
	return nil
}

// parentOf returns the parent of h, with the root window mapped to 0.
func (b *X11) parentOf(h Handle) (Handle, error) {
	_, parent, err := b.x.Children(xwin(h))
	if err != nil {
		return 0, err
	}
	if parent == b.x.Root || parent == 0 {
		return 0, nil
	}
	return Handle(parent), nil
}

// SetParent implements Controller. A zero parent reparents h to the root
// window.
func (b *X11) SetParent(h, parent Handle) error {
	if err := b.check("SetParent", h); err != nil {
		return err
	}
	target := xwin(parent)
	if parent == 0 {
		target = b.x.Root
	} else if err := b.check("SetParent", parent); err != nil {
		return NewOpError("SetParent", h, KindInvalidHandle, fmt.Errorf("parent %s is not a window", parent))
	}

	current, err := b.parentOf(h)
	if err != nil {
		return NewOpError("SetParent", h, KindOSCall, err)
	}
	if current == parent {
		return nil
	}

	if err := xproto.ReparentWindowChecked(b.x.Conn, xwin(h), target, 0, 0).Check(); err != nil {
		return NewOpError("SetParent", h, KindOSCall, err)
	}
	return nil
}

// SetClickThrough implements Controller.
func (b *X11) SetClickThrough(h Handle, enabled bool) error {
	if err := b.check("SetClickThrough", h); err != nil {
		return err
	}

	logger.WithComponent("x11").Debug().
		Stringer("window", h).
		Bool("click_through", enabled).
		Msg("Updating input region and hints")

	if err := b.setInputHint(h, !enabled); err != nil {
		return NewOpError("SetClickThrough", h, KindOSCall, err)
	}

	if !b.x.HasShape {
		return NewOpError("SetClickThrough", h, KindUnsupported, fmt.Errorf("SHAPE extension not available"))
	}
	var err error
	if enabled {
		err = shape.RectanglesChecked(b.x.Conn, shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, xwin(h), 0, 0, nil).Check()
	} else {
		err = shape.MaskChecked(b.x.Conn, shape.SoSet, shape.SkInput,
			xwin(h), 0, 0, xproto.PixmapNone).Check()
	}
	if err != nil {
		return NewOpError("SetClickThrough", h, KindOSCall, err)
	}
	return nil
}

// wmHints reads WM_HINTS, returning a zeroed set when the property is
// missing.
func (b *X11) wmHints(h Handle) ([]uint32, error) {
	reply, err := xproto.GetProperty(b.x.Conn, false, xwin(h), xproto.AtomWmHints,
		xproto.AtomWmHints, 0, wmHintsLen).Reply()
	if err != nil {
		return nil, err
	}
	hints := make([]uint32, wmHintsLen)
	copy(hints, x11.Cardinals(reply))
	return hints, nil
}

// setInputHint rewrites only the input flag and field of WM_HINTS.
func (b *X11) setInputHint(h Handle, input bool) error {
	hints, err := b.wmHints(h)
	if err != nil {
		return err
	}
	hints[0] |= wmHintsInputFlag
	if input {
		hints[1] = 1
	} else {
		hints[1] = 0
	}

	data := make([]byte, 4*wmHintsLen)
	for i, v := range hints {
		xgb.Put32(data[i*4:], v)
	}
	return xproto.ChangePropertyChecked(b.x.Conn, xproto.PropModeReplace, xwin(h),
		xproto.AtomWmHints, xproto.AtomWmHints, 32, wmHintsLen, data).Check()
}

// BringToFront implements Controller.
func (b *X11) BringToFront(h Handle) error {
	if err := b.check("BringToFront", h); err != nil {
		return err
	}
	if err := xproto.MapWindowChecked(b.x.Conn, xwin(h)).Check(); err != nil {
		return NewOpError("BringToFront", h, KindOSCall, err)
	}
	if err := xproto.ConfigureWindowChecked(b.x.Conn, xwin(h), xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove}).Check(); err != nil {
		return NewOpError("BringToFront", h, KindOSCall, err)
	}
	if err := xproto.SetInputFocusChecked(b.x.Conn, xproto.InputFocusPointerRoot, xwin(h),
		xproto.TimeCurrentTime).Check(); err != nil {
		return NewOpError("BringToFront", h, KindOSCall, err)
	}
	return nil
}

// SendToBack implements Controller.
func (b *X11) SendToBack(h Handle) error {
	if err := b.check("SendToBack", h); err != nil {
		return err
	}
	if err := xproto.ConfigureWindowChecked(b.x.Conn, xwin(h), xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeBelow}).Check(); err != nil {
		return NewOpError("SendToBack", h, KindOSCall, err)
	}
	return nil
}

// Resize implements Controller.
func (b *X11) Resize(h Handle, bounds Rect) error {
	if err := b.check("Resize", h); err != nil {
		return err
	}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(int32(bounds.X)),
		uint32(int32(bounds.Y)),
		uint32(bounds.Width),
		uint32(bounds.Height),
	}
	if err := xproto.ConfigureWindowChecked(b.x.Conn, xwin(h), mask, values).Check(); err != nil {
		return NewOpError("Resize", h, KindOSCall, err)
	}
	if err := xproto.MapWindowChecked(b.x.Conn, xwin(h)).Check(); err != nil {
		return NewOpError("Resize", h, KindOSCall, err)
	}
	return nil
}

// Hide implements Controller.
func (b *X11) Hide(h Handle) error {
	if err := b.check("Hide", h); err != nil {
		return err
	}
	if err := xproto.UnmapWindowChecked(b.x.Conn, xwin(h)).Check(); err != nil {
		return NewOpError("Hide", h, KindOSCall, err)
	}
	return nil
}

// Attributes implements Controller.
func (b *X11) Attributes(h Handle) (AttributeSet, error) {
	if err := b.check("Attributes", h); err != nil {
		return AttributeSet{}, err
	}
	var attrs AttributeSet

	if b.x.HasShape {
		rects, err := shape.GetRectangles(b.x.Conn, xwin(h), shape.SkInput).Reply()
		if err == nil {
			attrs.ClickThrough = rects.RectanglesLen == 0
		}
	}
	if hints, err := b.wmHints(h); err == nil {
		attrs.ActivationSuppressed = hints[0]&wmHintsInputFlag != 0 && hints[1] == 0
	}

	parent, err := b.parentOf(h)
	if err != nil {
		return attrs, NewOpError("Attributes", h, KindOSCall, err)
	}
	attrs.Parent = parent
	attrs.ZOrder = b.zOrderOf(h)
	return attrs, nil
}

// zOrderOf locates h among its siblings, which QueryTree lists bottom to
// top.
func (b *X11) zOrderOf(h Handle) ZOrder {
	_, parent, err := b.x.Children(xwin(h))
	if err != nil {
		return ZOrderUnknown
	}
	siblings, _, err := b.x.Children(parent)
	if err != nil || len(siblings) == 0 {
		return ZOrderUnknown
	}
	switch xwin(h) {
	case siblings[0]:
		return ZOrderBottom
	case siblings[len(siblings)-1]:
		return ZOrderTop
	default:
		return ZOrderUnknown
	}
}

package capture

import (
	"fmt"
	"image"
	"sync"

	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
	"github.com/bryanchriswhite/WebWallpaper/internal/x11"
)

// X11 captures windows with GetImage, through a Composite pixmap when the
// extension is present so that obscured wallpaper content is still read.
type X11 struct {
	x                *x11.Connection
	compositeEnabled bool
	mu               sync.Mutex
}

var _ Capturer = (*X11)(nil)

// NewX11 creates an X11 capturer on conn.
func NewX11(conn *x11.Connection) *X11 {
	c := &X11{x: conn}
	log := logger.WithComponent("capture")
	if err := composite.Init(conn.Conn); err != nil {
		log.Warn().
			Err(err).
			Msg("Composite extension not available - captures of covered windows may be blank")
	} else {
		c.compositeEnabled = true
		log.Debug().Msg("Composite extension initialized")
	}
	return c
}

// Name returns the capturer name
func (c *X11) Name() string {
	return "x11"
}

// Capture implements Capturer.
func (c *X11) Capture(h window.Handle) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	win := xproto.Window(h)
	log := logger.WithComponent("capture")

	attrs, err := xproto.GetWindowAttributes(c.x.Conn, win).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get window attributes: %w", err)
	}

	// Toolkits often draw into a child of the window we know about.
	if attrs.Class != xproto.WindowClassInputOutput || attrs.MapState != xproto.MapStateViewable {
		child, err := c.findCapturableChild(win)
		if err != nil {
			return nil, fmt.Errorf("no capturable window under %s: %w", h, err)
		}
		log.Debug().
			Stringer("window", h).
			Uint32("child", uint32(child)).
			Msg("Capturing child window")
		win = child
	}

	geom, err := xproto.GetGeometry(c.x.Conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get window geometry: %w", err)
	}
	if geom.Depth != 24 && geom.Depth != 32 {
		return nil, fmt.Errorf("unsupported window depth %d", geom.Depth)
	}

	drawable, release := c.drawableFor(win)
	defer release()

	reply, err := xproto.GetImage(
		c.x.Conn,
		xproto.ImageFormatZPixmap,
		drawable,
		0, 0,
		geom.Width, geom.Height,
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	w, ht := int(geom.Width), int(geom.Height)
	return fromBGRA(reply.Data, w, ht, w*4)
}

// drawableFor names the Composite backing pixmap of win, falling back to
// the window itself. release undoes the redirect.
func (c *X11) drawableFor(win xproto.Window) (xproto.Drawable, func()) {
	if !c.compositeEnabled {
		return xproto.Drawable(win), func() {}
	}
	log := logger.WithComponent("capture")

	if err := composite.RedirectWindowChecked(c.x.Conn, win, composite.RedirectAutomatic).Check(); err != nil {
		log.Debug().Err(err).Uint32("window", uint32(win)).Msg("Composite redirect failed, reading window directly")
		return xproto.Drawable(win), func() {}
	}
	unredirect := func() {
		composite.UnredirectWindow(c.x.Conn, win, composite.RedirectAutomatic)
	}

	pixmap, err := xproto.NewPixmapId(c.x.Conn)
	if err != nil {
		return xproto.Drawable(win), unredirect
	}
	if err := composite.NameWindowPixmapChecked(c.x.Conn, win, pixmap).Check(); err != nil {
		return xproto.Drawable(win), unredirect
	}
	return xproto.Drawable(pixmap), func() {
		xproto.FreePixmap(c.x.Conn, pixmap)
		unredirect()
	}
}

// findCapturableChild searches depth first for a viewable InputOutput
// window larger than a few pixels.
func (c *X11) findCapturableChild(parent xproto.Window) (xproto.Window, error) {
	children, _, err := c.x.Children(parent)
	if err != nil {
		return 0, err
	}

	for _, child := range children {
		attrs, err := xproto.GetWindowAttributes(c.x.Conn, child).Reply()
		if err != nil {
			continue
		}
		geom, err := xproto.GetGeometry(c.x.Conn, xproto.Drawable(child)).Reply()
		if err != nil {
			continue
		}
		if attrs.Class == xproto.WindowClassInputOutput && attrs.MapState == xproto.MapStateViewable &&
			geom.Width > 10 && geom.Height > 10 {
			return child, nil
		}
		if grandchild, err := c.findCapturableChild(child); err == nil {
			return grandchild, nil
		}
	}

	return 0, fmt.Errorf("no capturable child found")
}

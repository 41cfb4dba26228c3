// Package x11 holds the shared X11 connection used by the window, locator
// and desktop backends on Linux.
package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
)

// Connection wraps an xgb connection with the default screen and an atom
// cache.
type Connection struct {
	Conn   *xgb.Conn
	Root   xproto.Window
	Screen *xproto.ScreenInfo

	// HasShape reports whether the SHAPE extension is available.
	HasShape bool

	mu    sync.Mutex
	atoms map[string]xproto.Atom
}

// Connect opens a connection to the X server named by $DISPLAY.
func Connect() (*Connection, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	c := &Connection{
		Conn:   conn,
		Root:   screen.Root,
		Screen: screen,
		atoms:  make(map[string]xproto.Atom),
	}
	c.HasShape = shape.Init(conn) == nil
	return c, nil
}

// Close closes the X11 connection
func (c *Connection) Close() {
	c.Conn.Close()
}

// Atom interns name, caching the result.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(c.Conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	c.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// Property reads the raw value of a window property.
func (c *Connection) Property(win xproto.Window, name string) (*xproto.GetPropertyReply, error) {
	atom, err := c.Atom(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s atom: %w", name, err)
	}
	reply, err := xproto.GetProperty(
		c.Conn,
		false,
		win,
		atom,
		xproto.GetPropertyTypeAny,
		0,
		(1<<32)-1,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s property: %w", name, err)
	}
	return reply, nil
}

// Cardinals decodes a 32-bit property as a list of values.
func Cardinals(reply *xproto.GetPropertyReply) []uint32 {
	if reply == nil || reply.Format != 32 {
		return nil
	}
	out := make([]uint32, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		out = append(out, xgb.Get32(reply.Value[i:]))
	}
	return out
}

// String reads a text property such as WM_NAME.
func (c *Connection) String(win xproto.Window, name string) (string, error) {
	reply, err := c.Property(win, name)
	if err != nil {
		return "", err
	}
	if reply.ValueLen == 0 {
		return "", fmt.Errorf("empty property")
	}
	return string(reply.Value), nil
}

// Cardinal reads the first value of a 32-bit property.
func (c *Connection) Cardinal(win xproto.Window, name string) (uint32, error) {
	reply, err := c.Property(win, name)
	if err != nil {
		return 0, err
	}
	vals := Cardinals(reply)
	if len(vals) == 0 {
		return 0, fmt.Errorf("empty property %s", name)
	}
	return vals[0], nil
}

// HasAtomValue reports whether the atom-list property name on win contains
// the atom called value (e.g. _NET_WM_WINDOW_TYPE_DESKTOP).
func (c *Connection) HasAtomValue(win xproto.Window, name, value string) bool {
	reply, err := c.Property(win, name)
	if err != nil {
		return false
	}
	want, err := c.Atom(value)
	if err != nil {
		return false
	}
	for _, v := range Cardinals(reply) {
		if xproto.Atom(v) == want {
			return true
		}
	}
	return false
}

// Children returns the children of win in bottom-to-top stacking order,
// and its parent.
func (c *Connection) Children(win xproto.Window) ([]xproto.Window, xproto.Window, error) {
	tree, err := xproto.QueryTree(c.Conn, win).Reply()
	if err != nil {
		return nil, 0, err
	}
	return tree.Children, tree.Parent, nil
}

// FindByPID returns the top-level window owned by pid whose title is title.
// An empty title matches any window of the process.
func (c *Connection) FindByPID(pid int, title string) (xproto.Window, error) {
	children, _, err := c.Children(c.Root)
	if err != nil {
		return 0, err
	}
	// Topmost first
	for i := len(children) - 1; i >= 0; i-- {
		w := children[i]
		if found, ok := c.matchClient(w, pid, title); ok {
			return found, nil
		}
		// Reparenting window managers wrap clients in a frame.
		grand, _, err := c.Children(w)
		if err != nil {
			continue
		}
		for _, g := range grand {
			if found, ok := c.matchClient(g, pid, title); ok {
				return found, nil
			}
		}
	}
	return 0, fmt.Errorf("no window for pid %d with title %q", pid, title)
}

func (c *Connection) matchClient(w xproto.Window, pid int, title string) (xproto.Window, bool) {
	got, err := c.Cardinal(w, "_NET_WM_PID")
	if err != nil || int(got) != pid {
		return 0, false
	}
	if title == "" {
		return w, true
	}
	name, err := c.String(w, "_NET_WM_NAME")
	if err != nil || name == "" {
		name, _ = c.String(w, "WM_NAME")
	}
	return w, name == title
}

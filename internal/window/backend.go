package window

// Controller reads and writes the low-level attributes of a single live
// window. Implementations exist for Win32 and X11; windowtest.Fake is an
// in-memory one for tests.
//
// Every method acts synchronously on the calling thread and is idempotent:
// applying the same target twice yields the same state and no error. Callers
// must issue calls from the thread that owns the window.
type Controller interface {
	// SetParent reparents h under parent. A zero parent detaches h to the
	// top level.
	SetParent(h, parent Handle) error

	// SetClickThrough sets or clears the click-through and activation
	// suppression bits together, as one read-modify-write of the live
	// extended style. Unrelated bits are preserved.
	SetClickThrough(h Handle, enabled bool) error

	// BringToFront raises, shows, activates and focuses h without moving or
	// resizing it.
	BringToFront(h Handle) error

	// SendToBack lowers h to the bottom of its siblings without activating,
	// moving or resizing it.
	SendToBack(h Handle) error

	// Resize sets the position and size of h.
	Resize(h Handle, bounds Rect) error

	// Hide hides h.
	Hide(h Handle) error

	// Attributes reads the live attribute set of h.
	Attributes(h Handle) (AttributeSet, error)

	// Name returns the backend name (e.g., "win32", "x11")
	Name() string
}

// Package windowtest provides an in-memory window.Controller for tests.
package windowtest

import (
	"fmt"
	"sync"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// Call records one controller invocation.
type Call struct {
	Op     string
	Handle window.Handle
	Arg    interface{}
}

func (c Call) String() string {
	if c.Arg == nil {
		return fmt.Sprintf("%s(%s)", c.Op, c.Handle)
	}
	return fmt.Sprintf("%s(%s, %v)", c.Op, c.Handle, c.Arg)
}

// State is the simulated OS state of one window.
type State struct {
	Attrs   window.AttributeSet
	Bounds  window.Rect
	Visible bool
	Focused bool
}

// Fake simulates a windowing system. Windows must be registered with Add
// before use; operations on unknown handles fail with KindInvalidHandle.
type Fake struct {
	mu      sync.Mutex
	windows map[window.Handle]*State
	calls   []Call
	fail    map[string]error
}

var _ window.Controller = (*Fake)(nil)

// New returns an empty fake.
func New() *Fake {
	return &Fake{
		windows: make(map[window.Handle]*State),
		fail:    make(map[string]error),
	}
}

// Add registers a live top-level window.
func (f *Fake) Add(h window.Handle) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[h] = &State{Attrs: window.AttributeSet{ZOrder: window.ZOrderTop}, Visible: true}
	return f
}

// Destroy forgets h, making it stale.
func (f *Fake) Destroy(h window.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.windows, h)
}

// FailOn makes every later call of op fail with err. A nil err clears it.
func (f *Fake) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Tamper lets a test mutate the simulated state behind the controller's
// back, like another process would.
func (f *Fake) Tamper(h window.Handle, fn func(*State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.windows[h]; ok {
		fn(s)
	}
}

// StateOf returns a copy of the simulated state of h.
func (f *Fake) StateOf(h window.Handle) (State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.windows[h]
	if !ok {
		return State{}, false
	}
	return *s, true
}

// Calls returns the recorded calls in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Ops returns only the operation names of the recorded calls.
func (f *Fake) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, len(f.calls))
	for i, c := range f.calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset clears the call log.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Name returns the backend name.
func (f *Fake) Name() string { return "fake" }

func (f *Fake) begin(op string, h window.Handle, arg interface{}) (*State, error) {
	f.calls = append(f.calls, Call{Op: op, Handle: h, Arg: arg})
	if err, ok := f.fail[op]; ok {
		return nil, window.NewOpError(op, h, window.KindOSCall, err)
	}
	s, ok := f.windows[h]
	if !ok {
		return nil, window.NewOpError(op, h, window.KindInvalidHandle, nil)
	}
	return s, nil
}

// SetParent implements window.Controller.
func (f *Fake) SetParent(h, parent window.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.begin("SetParent", h, parent)
	if err != nil {
		return err
	}
	s.Attrs.Parent = parent
	return nil
}

// SetClickThrough implements window.Controller.
func (f *Fake) SetClickThrough(h window.Handle, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.begin("SetClickThrough", h, enabled)
	if err != nil {
		return err
	}
	s.Attrs.ClickThrough = enabled
	s.Attrs.ActivationSuppressed = enabled
	return nil
}

// BringToFront implements window.Controller.
func (f *Fake) BringToFront(h window.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.begin("BringToFront", h, nil)
	if err != nil {
		return err
	}
	s.Attrs.ZOrder = window.ZOrderTop
	s.Visible = true
	s.Focused = true
	return nil
}

// SendToBack implements window.Controller.
func (f *Fake) SendToBack(h window.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.begin("SendToBack", h, nil)
	if err != nil {
		return err
	}
	s.Attrs.ZOrder = window.ZOrderBottom
	s.Focused = false
	return nil
}

// Resize implements window.Controller.
func (f *Fake) Resize(h window.Handle, bounds window.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.begin("Resize", h, bounds)
	if err != nil {
		return err
	}
	s.Bounds = bounds
	s.Visible = true
	return nil
}

// Hide implements window.Controller.
func (f *Fake) Hide(h window.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.begin("Hide", h, nil)
	if err != nil {
		return err
	}
	s.Visible = false
	s.Focused = false
	return nil
}

// Attributes implements window.Controller. Reads are not recorded.
func (f *Fake) Attributes(h window.Handle) (window.AttributeSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.windows[h]
	if !ok {
		return window.AttributeSet{}, window.NewOpError("Attributes", h, window.KindInvalidHandle, nil)
	}
	return s.Attrs, nil
}

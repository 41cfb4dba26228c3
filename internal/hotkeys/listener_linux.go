package hotkeys

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/hashicorp/go-multierror"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

// x11Listener grabs keys on the root window with its own connection and
// runs the xgbutil event loop.
type x11Listener struct {
	d  *Dispatcher
	xu *xgbutil.XUtil

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewListener returns the platform listener.
func NewListener(d *Dispatcher) (Listener, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	keybind.Initialize(xu)
	configureIgnoreMods(xu)
	return &x11Listener{d: d, xu: xu, done: make(chan struct{})}, nil
}

// Register implements Listener.
func (l *x11Listener) Register(bindings []Binding) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return fmt.Errorf("hotkeys already registered")
	}

	var result *multierror.Error
	root := l.xu.RootWin()
	for _, b := range bindings {
		id := b.ID
		err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			l.d.Dispatch(id)
		}).Connect(l.xu, root, b.Combo.KeySequence(), true)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("register %s (%s): %w", b.ID, b.Combo, err))
			continue
		}
		logRegistered(b)
	}

	l.running = true
	go func() {
		defer close(l.done)
		defer logger.Recover("hotkeys")
		xevent.Main(l.xu)
	}()
	return result.ErrorOrNil()
}

// Close implements Listener.
func (l *x11Listener) Close() error {
	l.mu.Lock()
	running := l.running
	l.running = false
	l.mu.Unlock()

	if running {
		keybind.Detach(l.xu, l.xu.RootWin())
		xevent.Quit(l.xu)
		<-l.done
	}
	l.xu.Conn().Close()
	return nil
}

// configureIgnoreMods lets hotkeys fire with CapsLock or NumLock on.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	masks := []uint16{0, uint16(xproto.ModMaskLock)}
	for _, keycode := range keybind.StrToKeycodes(xu, "Num_Lock") {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			masks = append(masks, mask, mask|uint16(xproto.ModMaskLock))
			break
		}
	}
	xevent.IgnoreMods = masks
}

package hotkeys

import (
	"fmt"
	"sync"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

// ID identifies a registered hotkey.
type ID int

const (
	ToggleInteractive ID = 0x1001
	ToggleMute        ID = 0x1002
	Reload            ID = 0x1003
)

func (id ID) String() string {
	switch id {
	case ToggleInteractive:
		return "toggle-interactive"
	case ToggleMute:
		return "toggle-mute"
	case Reload:
		return "reload"
	default:
		return fmt.Sprintf("hotkey-%#x", int(id))
	}
}

// Binding ties a hotkey id to its combination.
type Binding struct {
	ID    ID
	Combo Combo
}

// Action handles a hotkey press.
type Action func() error

// Dispatcher runs the action bound to a pressed hotkey. Actions run one at
// a time on the dispatcher's goroutine so a slow action never stalls the
// OS message loop.
type Dispatcher struct {
	mu      sync.RWMutex
	actions map[ID]Action
	presses chan ID
	done    chan struct{}
	once    sync.Once
}

// NewDispatcher starts a dispatcher.
func NewDispatcher(actions map[ID]Action) *Dispatcher {
	d := &Dispatcher{
		actions: make(map[ID]Action, len(actions)),
		presses: make(chan ID, 16),
		done:    make(chan struct{}),
	}
	for id, a := range actions {
		d.actions[id] = a
	}
	go d.run()
	return d
}

// Dispatch queues a press. Presses arriving while the queue is full are
// dropped.
func (d *Dispatcher) Dispatch(id ID) {
	select {
	case <-d.done:
	case d.presses <- id:
	default:
		logger.WithComponent("hotkeys").Warn().Stringer("hotkey", id).Msg("Hotkey queue full, dropping press")
	}
}

func (d *Dispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case id := <-d.presses:
			d.handle(id)
		}
	}
}

func (d *Dispatcher) handle(id ID) {
	defer logger.Recover("hotkeys")

	d.mu.RLock()
	action, ok := d.actions[id]
	d.mu.RUnlock()

	log := logger.WithComponent("hotkeys")
	if !ok {
		log.Debug().Stringer("hotkey", id).Msg("No action for hotkey")
		return
	}
	log.Debug().Stringer("hotkey", id).Msg("Hotkey pressed")
	if err := action(); err != nil {
		log.Warn().Err(err).Stringer("hotkey", id).Msg("Hotkey action failed")
	}
}

// Close stops the dispatcher. Queued presses are discarded.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.done) })
}

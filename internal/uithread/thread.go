// Package uithread marshals work onto the thread that owns the UI surface.
package uithread

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

// ErrStopped is returned when the owner thread no longer accepts work.
var ErrStopped = errors.New("ui thread stopped")

// Poster queues fn to run on the owner thread. Posts run in FIFO order.
type Poster interface {
	Post(fn func()) error
}

// Thread is the cross-thread entry point to an owner thread.
type Thread struct {
	poster Poster
	owner  atomic.Int64
}

// NewThread creates a Thread over poster. The owner thread id is recorded
// by the first BindOwner call, which must run on the owner thread.
func NewThread(poster Poster) *Thread {
	t := &Thread{poster: poster}
	t.owner.Store(-1)
	return t
}

// BindOwner records the calling OS thread as the owner.
func (t *Thread) BindOwner() {
	t.owner.Store(currentThreadID())
}

// IsOwner reports whether the caller runs on the owner thread.
func (t *Thread) IsOwner() bool {
	id := currentThreadID()
	return id >= 0 && id == t.owner.Load()
}

// Call runs fn on the owner thread and waits for it. On the owner thread fn
// runs inline.
func (t *Thread) Call(fn func() error) error {
	if t.IsOwner() {
		return run(fn)
	}
	done := make(chan error, 1)
	if err := t.poster.Post(func() { done <- run(fn) }); err != nil {
		return err
	}
	return <-done
}

// Go posts fn without waiting.
func (t *Thread) Go(fn func()) error {
	return t.poster.Post(func() {
		_ = run(func() error { fn(); return nil })
	})
}

// run converts a panic in fn into an error so the owner loop survives it.
func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent("uithread").Error().Interface("panic", r).Msg("Recovered from panic on UI thread")
			err = fmt.Errorf("panic on ui thread: %v", r)
		}
	}()
	return fn()
}

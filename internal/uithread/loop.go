package uithread

import (
	"errors"
	"runtime"
	"sync"
)

// ErrQueueFull is returned when the owner thread posts to its own full
// queue, where waiting could never end.
var ErrQueueFull = errors.New("ui thread queue full")

// Loop is an owner thread backed by a locked goroutine and a command
// queue. It stands in for a UI message loop when no renderer owns one.
type Loop struct {
	queue    chan func()
	stopping chan struct{}
	done     chan struct{}

	mu       sync.Mutex
	stopped  bool
	inflight sync.WaitGroup
	once     sync.Once
	*Thread
}

// NewLoop starts a loop with the given queue depth.
func NewLoop(depth int) *Loop {
	if depth <= 0 {
		depth = 64
	}
	l := &Loop{
		queue:    make(chan func(), depth),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
	l.Thread = NewThread(l)

	ready := make(chan struct{})
	go l.run(ready)
	<-ready
	return l
}

func (l *Loop) run(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	l.BindOwner()
	close(ready)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.stopping:
			// Posts that got in before Stop still run.
			l.inflight.Wait()
			for {
				select {
				case fn := <-l.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Post implements Poster. The queue is never sent to under the lock, so a
// blocked sender cannot hold up Stop.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrStopped
	}
	l.inflight.Add(1)
	l.mu.Unlock()
	defer l.inflight.Done()

	if l.IsOwner() {
		select {
		case l.queue <- fn:
			return nil
		default:
			return ErrQueueFull
		}
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.stopping:
		return ErrStopped
	}
}

// Stop drains queued work and ends the loop. Safe to call more than once,
// from any thread.
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		close(l.stopping)
		l.mu.Unlock()
	})
	if !l.IsOwner() {
		<-l.done
	}
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

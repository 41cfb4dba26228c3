package locator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanchriswhite/WebWallpaper/internal/window"
)

// fakeShell models Progman plus a front-to-back list of WorkerW containers.
type fakeShell struct {
	manager    window.Handle
	containers []window.Handle
	iconView   map[window.Handle]bool
	requestErr error

	requests int
	timeout  time.Duration
	nexts    int
	// loop makes NextContainer never terminate.
	loop bool
}

func (s *fakeShell) FindManager() window.Handle { return s.manager }

func (s *fakeShell) RequestWorker(_ window.Handle, timeout time.Duration) error {
	s.requests++
	s.timeout = timeout
	return s.requestErr
}

func (s *fakeShell) NextContainer(after window.Handle) window.Handle {
	s.nexts++
	if s.loop {
		return after + 1
	}
	if after == 0 {
		if len(s.containers) == 0 {
			return 0
		}
		return s.containers[0]
	}
	for i, c := range s.containers {
		if c == after && i+1 < len(s.containers) {
			return s.containers[i+1]
		}
	}
	return 0
}

func (s *fakeShell) HasIconView(c window.Handle) bool { return s.iconView[c] }

func TestLocate(t *testing.T) {
	tests := []struct {
		name      string
		shell     *fakeShell
		wantHost  window.Handle
		wantFound bool
	}{
		{
			name:  "no manager",
			shell: &fakeShell{containers: []window.Handle{0x10}},
		},
		{
			name:  "no containers",
			shell: &fakeShell{manager: 0x1},
		},
		{
			name: "only icon view container",
			shell: &fakeShell{
				manager:    0x1,
				containers: []window.Handle{0x10},
				iconView:   map[window.Handle]bool{0x10: true},
			},
		},
		{
			name: "icon view then worker",
			shell: &fakeShell{
				manager:    0x1,
				containers: []window.Handle{0x10, 0x20},
				iconView:   map[window.Handle]bool{0x10: true},
			},
			wantHost:  0x20,
			wantFound: true,
		},
		{
			name: "last qualifying container wins",
			shell: &fakeShell{
				manager:    0x1,
				containers: []window.Handle{0x10, 0x20, 0x30, 0x40},
				iconView:   map[window.Handle]bool{0x20: true, 0x40: true},
			},
			wantHost:  0x30,
			wantFound: true,
		},
		{
			name: "spawn request failure still enumerates",
			shell: &fakeShell{
				manager:    0x1,
				containers: []window.Handle{0x10},
				requestErr: errors.New("timeout"),
			},
			wantHost:  0x10,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, found := New(tt.shell).Locate(context.Background())
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantHost, host)
		})
	}
}

func TestLocateUsesTimeout(t *testing.T) {
	shell := &fakeShell{manager: 0x1}
	l := New(shell)
	l.Timeout = 250 * time.Millisecond
	l.Locate(context.Background())
	assert.Equal(t, 1, shell.requests)
	assert.Equal(t, 250*time.Millisecond, shell.timeout)

	l.Timeout = 0
	l.Locate(context.Background())
	assert.Equal(t, DefaultTimeout, shell.timeout)
}

func TestLocateNeverCaches(t *testing.T) {
	shell := &fakeShell{manager: 0x1, containers: []window.Handle{0x10}}
	l := New(shell)

	host, found := l.Locate(context.Background())
	assert.True(t, found)
	assert.Equal(t, window.Handle(0x10), host)

	shell.containers = []window.Handle{0x10, 0x99}
	host, found = l.Locate(context.Background())
	assert.True(t, found)
	assert.Equal(t, window.Handle(0x99), host)
	assert.Equal(t, 2, shell.requests)
}

func TestLocateCapsEnumeration(t *testing.T) {
	shell := &fakeShell{manager: 0x1, loop: true}
	l := New(shell)
	l.MaxContainers = 8

	host, found := l.Locate(context.Background())
	assert.True(t, found)
	assert.Equal(t, window.Handle(8), host)
	assert.Equal(t, 9, shell.nexts)
}

func TestLocateCancelled(t *testing.T) {
	shell := &fakeShell{manager: 0x1, containers: []window.Handle{0x10}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host, found := New(shell).Locate(ctx)
	assert.False(t, found)
	assert.Zero(t, host)
	assert.Zero(t, shell.requests)
}

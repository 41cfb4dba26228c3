package uithread

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallReturnsError(t *testing.T) {
	loop := NewLoop(0)
	defer loop.Stop()

	boom := errors.New("boom")
	assert.ErrorIs(t, loop.Call(func() error { return boom }), boom)
}

func TestCallOrdering(t *testing.T) {
	loop := NewLoop(0)
	defer loop.Stop()

	var got []int
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, loop.Go(func() { got = append(got, i) }))
	}
	require.NoError(t, loop.Call(func() error { return nil }))

	want := make([]int, 50)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestConcurrentCallers(t *testing.T) {
	loop := NewLoop(0)
	defer loop.Stop()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = loop.Call(func() error {
					counter++
					return nil
				})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, counter)
}

func TestCallRecoversPanic(t *testing.T) {
	loop := NewLoop(0)
	defer loop.Stop()

	err := loop.Call(func() error { panic("bad") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	// The loop is still alive.
	assert.NoError(t, loop.Call(func() error { return nil }))
}

func TestStoppedLoop(t *testing.T) {
	loop := NewLoop(0)
	loop.Stop()
	loop.Stop()

	<-loop.Done()
	assert.ErrorIs(t, loop.Call(func() error { return nil }), ErrStopped)
	assert.ErrorIs(t, loop.Go(func() {}), ErrStopped)
}

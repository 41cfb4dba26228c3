package window

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpErrorMatching(t *testing.T) {
	cause := errors.New("access denied")
	err := fmt.Errorf("transition: %w", NewOpError("SetParent", 0x10, KindOSCall, cause))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindOSCall, kind)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidHandle)
	assert.Equal(t, "transition: window 0x10 SetParent: os call: access denied", err.Error())

	stale := NewOpError("Resize", 0x20, KindInvalidHandle, nil)
	assert.ErrorIs(t, stale, ErrInvalidHandle)
	assert.Equal(t, "window 0x20 Resize: invalid handle", stale.Error())

	_, ok = KindOf(cause)
	assert.False(t, ok)
}

func TestTargets(t *testing.T) {
	host := Handle(0xBEEF)
	assert.Equal(t, AttributeSet{
		ClickThrough:         true,
		ActivationSuppressed: true,
		Parent:               host,
		ZOrder:               ZOrderBottom,
	}, Embedded(host))
	assert.Equal(t, AttributeSet{ZOrder: ZOrderTop}, Floating())
}

func TestRect(t *testing.T) {
	assert.True(t, Rect{}.Empty())
	assert.True(t, Rect{Width: 10}.Empty())
	assert.False(t, Rect{Width: 1920, Height: 1080}.Empty())
}

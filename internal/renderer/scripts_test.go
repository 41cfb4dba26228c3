package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMuteScript(t *testing.T) {
	assert.Equal(t, "window.__ww && window.__ww.setMuted(true);", MuteScript(true))
	assert.Equal(t, "window.__ww && window.__ww.setMuted(false);", MuteScript(false))
}

func TestInitScript(t *testing.T) {
	assert.Contains(t, InitScript, "window."+MutedStateBinding+"()")
	assert.Contains(t, InitScript, "getUserMedia = denied")
	assert.Contains(t, InitScript, "getCurrentPosition = refuse")
}

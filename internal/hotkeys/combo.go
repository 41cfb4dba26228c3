// Package hotkeys registers the global key combinations that drive the
// wallpaper.
package hotkeys

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier is a bit set of modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"shift":   ModShift,
	"super":   ModSuper,
	"win":     ModSuper,
	"meta":    ModSuper,
}

// namedKeys maps key names to their Windows virtual-key code and X11
// keysym name.
var namedKeys = map[string]struct {
	vk     uint32
	keysym string
}{
	"SPACE":     {0x20, "space"},
	"ENTER":     {0x0D, "Return"},
	"TAB":       {0x09, "Tab"},
	"ESC":       {0x1B, "Escape"},
	"ESCAPE":    {0x1B, "Escape"},
	"BACKSPACE": {0x08, "BackSpace"},
	"DELETE":    {0x2E, "Delete"},
	"INSERT":    {0x2D, "Insert"},
	"HOME":      {0x24, "Home"},
	"END":       {0x23, "End"},
	"PAGEUP":    {0x21, "Prior"},
	"PAGEDOWN":  {0x22, "Next"},
	"LEFT":      {0x25, "Left"},
	"UP":        {0x26, "Up"},
	"RIGHT":     {0x27, "Right"},
	"DOWN":      {0x28, "Down"},
}

// Combo is one key plus modifiers, such as Ctrl+Alt+W.
type Combo struct {
	Mods Modifier
	// Key is upper case: a letter, a digit, F1-F24 or a named key.
	Key string
}

// ParseCombo parses combinations like "Ctrl+Alt+W" or "super+shift+f5".
// At least one modifier is required so plain typing is never swallowed.
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	if len(parts) < 2 {
		return Combo{}, fmt.Errorf("hotkey %q needs at least one modifier and a key", s)
	}

	var c Combo
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Combo{}, fmt.Errorf("hotkey %q: unknown modifier %q", s, p)
		}
		c.Mods |= mod
	}

	key := strings.ToUpper(strings.TrimSpace(parts[len(parts)-1]))
	if !validKey(key) {
		return Combo{}, fmt.Errorf("hotkey %q: unknown key %q", s, parts[len(parts)-1])
	}
	c.Key = key
	return c, nil
}

func validKey(key string) bool {
	if len(key) == 1 {
		return (key[0] >= 'A' && key[0] <= 'Z') || (key[0] >= '0' && key[0] <= '9')
	}
	if _, ok := functionKey(key); ok {
		return true
	}
	_, ok := namedKeys[key]
	return ok
}

// functionKey returns n for "Fn", 1 <= n <= 24.
func functionKey(key string) (int, bool) {
	if len(key) < 2 || key[0] != 'F' {
		return 0, false
	}
	n, err := strconv.Atoi(key[1:])
	if err != nil || n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}

// String formats the combination in canonical Ctrl+Alt+Shift+Super order.
func (c Combo) String() string {
	var parts []string
	if c.Mods&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if c.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Mods&ModSuper != 0 {
		parts = append(parts, "Super")
	}
	return strings.Join(append(parts, c.Key), "+")
}

// VirtualKey returns the Windows modifier flags and virtual-key code.
func (c Combo) VirtualKey() (mods uint32, vk uint32) {
	if c.Mods&ModAlt != 0 {
		mods |= 0x0001
	}
	if c.Mods&ModCtrl != 0 {
		mods |= 0x0002
	}
	if c.Mods&ModShift != 0 {
		mods |= 0x0004
	}
	if c.Mods&ModSuper != 0 {
		mods |= 0x0008
	}
	if len(c.Key) == 1 {
		return mods, uint32(c.Key[0])
	}
	if n, ok := functionKey(c.Key); ok {
		return mods, 0x70 + uint32(n-1)
	}
	return mods, namedKeys[c.Key].vk
}

// KeySequence returns the combination in xgbutil keybind syntax, e.g.
// "Control-Mod1-w".
func (c Combo) KeySequence() string {
	var parts []string
	if c.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Mods&ModCtrl != 0 {
		parts = append(parts, "Control")
	}
	if c.Mods&ModAlt != 0 {
		parts = append(parts, "Mod1")
	}
	if c.Mods&ModSuper != 0 {
		parts = append(parts, "Mod4")
	}

	key := c.Key
	switch {
	case len(key) == 1:
		key = strings.ToLower(key)
	case namedKeys[key].keysym != "":
		key = namedKeys[key].keysym
	}
	return strings.Join(append(parts, key), "-")
}

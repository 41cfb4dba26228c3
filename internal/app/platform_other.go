//go:build !windows && !linux

package app

import (
	"fmt"
	"runtime"
)

func newPlatform() (*platform, error) {
	return nil, fmt.Errorf("desktop wallpaper hosting is not supported on %s", runtime.GOOS)
}

package main

import (
	"runtime"

	"github.com/bryanchriswhite/WebWallpaper/cmd/webwallpaper/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func init() {
	// The renderer and the window calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	commands.Execute(version)
}

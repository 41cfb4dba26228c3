package webview

import (
	"os"
	"unsafe"

	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
	"github.com/bryanchriswhite/WebWallpaper/internal/window"
	"github.com/bryanchriswhite/WebWallpaper/internal/x11"
)

// nativeHandle cannot see through the GTK window without an X connection.
func nativeHandle(unsafe.Pointer, string) window.Handle {
	return 0
}

// X11Resolver finds the surface window among this process's top-level
// windows by title.
func X11Resolver(conn *x11.Connection) HandleResolver {
	return func(_ unsafe.Pointer, title string) window.Handle {
		w, err := conn.FindByPID(os.Getpid(), title)
		if err != nil {
			logger.WithComponent("renderer").Debug().Err(err).Msg("Surface window not mapped yet")
			return 0
		}
		return window.Handle(w)
	}
}

func prepareWindow(unsafe.Pointer) {}

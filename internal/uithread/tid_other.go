//go:build !windows && !linux

package uithread

// Without a thread id every call is marshaled, so IsOwner is always false
// and a Call nested inside owner work would wait on itself. Nothing on these
// platforms runs an owner thread: app.Run refuses them.
func currentThreadID() int64 {
	return -1
}

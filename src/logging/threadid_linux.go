//go:build linux

package logging

import "golang.org/x/sys/unix"

// threadID returns the OS thread id of the calling goroutine's current carrier thread.
// Best-effort: Go goroutines can migrate between OS threads, so this is only meaningful
// as a coarse "which worker logged this" hint, which is all the binary format needs it for.
func threadID() uint32 {
	return uint32(unix.Gettid())
}

//go:build !linux

package logging

import "os"

// threadID falls back to the process id on platforms without a cheap thread-id syscall.
func threadID() uint32 {
	return uint32(os.Getpid())
}

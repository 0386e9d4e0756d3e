// Package platform implements the host-detection and filesystem primitives
// that the rest of craft builds on: existence and mtime checks, recursive
// directory creation, and the per-OS naming conventions for binaries and
// libraries.
package platform

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jordirovira/craft/src/logging"
)

var log = logging.MustGetLogger("platform")

// DirPermissions are the default permission bits applied to created directories.
const DirPermissions = os.ModeDir | 0775

// EnsureDir makes sure the directory containing filename exists, creating it
// (and any parents) if necessary. It reports whether the directory had to be
// created, which the staleness analysis in src/plan treats as a sign that
// nothing useful can already live under it.
func EnsureDir(filename string) (created bool, err error) {
	dir := filepath.Dir(filename)
	if IsDirectory(dir) {
		return false, nil
	}
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return false, err
	}
	return true, nil
}

// FileExists returns true if the given path exists and is not a directory.
func FileExists(filename string) bool {
	info, err := os.Lstat(filename)
	return err == nil && !info.IsDir()
}

// PathExists returns true if the given path exists at all.
func PathExists(filename string) bool {
	_, err := os.Lstat(filename)
	return err == nil
}

// IsDirectory returns true if path exists and is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ModTime returns the modification time of filename, and whether the file exists at all.
// Resolution is truncated to the second to match spec's whole-second comparison guarantee
// on platforms that expose only that.
func ModTime(filename string) (t time.Time, exists bool) {
	info, err := os.Stat(filename)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime().Truncate(time.Second), true
}

// Touch sets filename's modification time to now, creating it if it doesn't exist,
// e.g. to simulate a source file edit.
func Touch(filename string) error {
	now := time.Now()
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		f.Close()
	}
	return os.Chtimes(filename, now, now)
}

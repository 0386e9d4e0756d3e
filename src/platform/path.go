package platform

import (
	"net/url"
	"strings"
)

// FileReplaceExtension replaces path's extension with ext. The "extension" is
// whatever follows the last dot that occurs after the last path separator;
// a dot that's part of a directory component (e.g. "a/b.c/d") is not treated
// as an extension, so FileReplaceExtension("a/b.c/d", "o") yields "a/b.c/d.o".
func FileReplaceExtension(path, ext string) string {
	slash := strings.LastIndexAny(path, "/\\")
	base := path
	if slash >= 0 {
		base = path[slash+1:]
	}
	if dot := strings.LastIndex(base, "."); dot >= 0 {
		return path[:len(path)-len(base)+dot+1] + ext
	}
	return path + "." + ext
}

// EscapeFilename turns a URL into a filesystem-safe name for Download
// targets by URL-escaping it; the caller joins it onto the build root.
func EscapeFilename(rawURL string) string {
	return url.QueryEscape(rawURL)
}

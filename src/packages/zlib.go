package packages

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jordirovira/craft/src/core"
)

// zlibSources are zlib's own translation units, compiled directly into a
// static_library rather than driven through a vendored build tool the way
// Boost's b2 invocation is — zlib needs nothing more than its own sources and
// a compiler.
var zlibSources = strings.Fields(
	"adler32.c compress.c crc32.c deflate.c gzclose.c gzlib.c gzread.c " +
		"gzwrite.c infback.c inffast.c inflate.c inftrees.c trees.c uncompr.c zutil.c",
)

// Zlib registers the download/unarchive sequence for a zlib release and a
// static_library target compiled straight from the extracted sources.
func Zlib(ctx *core.DefinitionContext, version string) *core.TargetHandle {
	url := fmt.Sprintf("https://zlib.net/zlib-%s.tar.xz", version)
	downloadName := "zlib_download_" + version
	unarchiveName := "zlib_src_" + version
	ctx.Download(downloadName).URL(url)
	ctx.Unarchive(unarchiveName).FromArchive(downloadName)

	extracted := filepath.Join(ctx.BuildRoot, unarchiveName)
	handle := ctx.StaticLibrary("zlib").
		Include(extracted).
		ExportInclude(extracted).
		Use(unarchiveName)
	for _, source := range zlibSources {
		handle.Source(filepath.Join(extracted, source))
	}
	return handle
}

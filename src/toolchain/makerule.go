// Package toolchain implements the GCC and MSVC compiler/linker backends
// behind core.Toolchain.
package toolchain

import (
	"path/filepath"
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"
)

// lineContinuation matches a backslash immediately followed by a newline,
// the Make-rule line-continuation marker.
var lineContinuation = deferredregex.DeferredRegex{Re: `\\\r?\n`}

// parseMakeRules parses the Make-rule dependency listing GCC's -MM prints
// (MSVC's /showIncludes output is parsed separately, in msvc.go): rules are
// joined across line
// continuations, tokens are split on runs of whitespace, and any token
// ending in ":" is dropped as the rule target. Relative tokens are resolved
// against workingDir.
func parseMakeRules(output, workingDir string) []string {
	joined := lineContinuation.ReplaceAllStringFunc(output, func(string) string { return " " })
	var deps []string
	for _, tok := range strings.Fields(joined) {
		if strings.HasSuffix(tok, ":") {
			continue
		}
		if !filepath.IsAbs(tok) {
			tok = filepath.Join(workingDir, tok)
		}
		deps = append(deps, tok)
	}
	return deps
}

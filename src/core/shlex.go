package core

import "github.com/google/shlex"

// shlexSplit tokenizes an Exec argument string shell-style, so a craftfile
// can write .Args(`--flag "quoted value"`) and have it split the way a
// shell would rather than on bare whitespace.
func shlexSplit(s string) ([]string, error) {
	return shlex.Split(s)
}

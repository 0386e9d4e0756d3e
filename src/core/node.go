package core

import "github.com/jordirovira/craft/src/platform"

// A Node is an input or output file identified by its absolute path. Nodes are
// value-like; two nodes with the same path refer to the same file.
type Node struct {
	Path string
}

// NewNode returns a Node for the given absolute path.
func NewNode(path string) Node {
	return Node{Path: path}
}

// Exists reports whether the file backing this node is present on disk.
func (n Node) Exists() bool {
	return platform.FileExists(n.Path)
}

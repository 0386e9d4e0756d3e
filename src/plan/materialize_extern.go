package plan

import "github.com/jordirovira/craft/src/core"

// materializeExternDynamicLibrary resolves an ExternDynamicLibrary's search
// path, either the literal value set on the definition or the result of its
// LibraryPathGenerator. It carries no output node of its own: the library is
// assumed already present on the system and is specified by path and link
// flag at command-assembly time.
func (c *Context) materializeExternDynamicLibrary(target *core.Target) (*core.BuiltTarget, error) {
	// Uses are still materialized for side effects: a package's extern
	// library commonly depends on the exec step that builds it, and calling
	// GetBuiltTarget here ensures that step's task is already in the plan
	// before whatever links against this library is appended.
	if _, _, err := c.requiredTasks(target.Uses); err != nil {
		return nil, err
	}
	libPath := target.LibraryPath
	if target.LibraryPathGenerator != nil {
		libPath = target.LibraryPathGenerator(c)
	}
	return &core.BuiltTarget{SourceTarget: target, LibraryPath: libPath}, nil
}

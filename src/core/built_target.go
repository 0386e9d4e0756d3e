package core

// A BuiltTarget is the per-plan materialization of a Target: a
// back-reference to its definition, an optional primary output node, and the
// (possibly empty) list of tasks that must run to produce it. Every task in
// OutputTasks has had its Requirements closed over the tasks of every target
// named in the source Target's Uses.
type BuiltTarget struct {
	SourceTarget *Target
	OutputNode   Node
	OutputTasks  []*Task

	// LibraryPath is the resolved on-disk search directory for an
	// ExternDynamicLibrary target, either the literal value set on the
	// definition or the result of its LibraryPathGenerator.
	LibraryPath string

	// HasOutput is true when OutputNode is meaningful. Exec,
	// ExternDynamicLibrary and some Custom targets have no single primary
	// output.
	HasOutput bool

	configurationInsensitive bool
}

// HasTasks reports whether materializing this target required any work.
func (b *BuiltTarget) HasTasks() bool {
	return len(b.OutputTasks) > 0
}

// IsConfigurationInsensitive reports whether ConfigurationInsensitive was
// called on this BuiltTarget, i.e. whether it should be memoized across
// every configuration rather than per-configuration.
func (b *BuiltTarget) IsConfigurationInsensitive() bool {
	return b.configurationInsensitive
}

// ConfigurationInsensitive marks a Custom target's BuiltTarget as shared
// across configurations, overriding Kind.ConfigurationSensitive's default for
// Custom targets.
func (b *BuiltTarget) ConfigurationInsensitive() *BuiltTarget {
	b.configurationInsensitive = true
	return b
}

package core

// Plan is the view of a plan context that Custom targets' build closures and
// ExternDynamicLibrary's library-path generators are allowed to see. The
// concrete implementation, including the materialization and
// staleness-analysis logic, lives in src/plan — core only needs the narrow
// interface so Target's closure-valued fields can refer to it without the
// two packages importing each other.
type Plan interface {
	// GetBuiltTarget materializes (or returns the memoized materialization
	// of) the named target under the plan's current configuration.
	GetBuiltTarget(name string) (*BuiltTarget, error)
	// CurrentConfiguration is the configuration name presently being built.
	CurrentConfiguration() string
	// BuildRoot is the root of the build output tree for this plan.
	BuildRoot() string
	// Definitions exposes the definition context the plan was created from,
	// for closures that need to read target metadata directly.
	Definitions() *DefinitionContext
	// AddTask appends t to the plan's ordered task list. Closures that do
	// their own materialization use this to register their own tasks.
	AddTask(t *Task)
}

package core

// A Runner performs the work a Task exists to do and returns a process-style exit
// status: 0 for success, non-zero for failure.
type Runner func() int

// A Task is one unit of planned work: a type tag, zero or more output nodes, a
// runner closure, and an ordered list of tasks that must have already run
// successfully. The executor (src/plan's Execute) runs tasks strictly in the
// order they appear in a Plan's task list, which is itself a topological
// order by construction: a task is only ever appended after its
// Requirements have already returned from materialization.
type Task struct {
	// Type is a free-form tag such as "compile", "link program", "exec",
	// "download", "unarchive", "custom". It doubles as the logging category
	// and the OpenTelemetry span name it runs under.
	Type string
	// Outputs is the ordered list of nodes this task produces. May be empty
	// (e.g. Exec and Custom synchronization tasks).
	Outputs []Node
	// Run performs the task's work. Never nil.
	Run Runner
	// Requirements lists tasks that must run (and succeed) before this one.
	// Not deduplicated; duplicates are harmless since each task runs once and
	// the list ordering already encodes the dependency.
	Requirements []*Task
}

// PrimaryOutput returns the task's first output node, or the zero Node if it has
// none.
func (t *Task) PrimaryOutput() Node {
	if len(t.Outputs) == 0 {
		return Node{}
	}
	return t.Outputs[0]
}

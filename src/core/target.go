package core

import "strings"

// A Kind tags which variant of target a Target value represents. Rather than
// a deep class hierarchy, every kind is a tag on one flat struct whose
// kind-specific fields are simply unused for the kinds that don't need them.
type Kind int

const (
	// Program links object files and libraries into an executable.
	Program Kind = iota
	// StaticLibrary archives object files into a static library.
	StaticLibrary
	// DynamicLibrary links object files and libraries into a shared object.
	DynamicLibrary
	// Object compiles a single translation unit.
	Object
	// ExternDynamicLibrary refers to a library assumed already present on the
	// host, optionally with a plan-time-resolved library path.
	ExternDynamicLibrary
	// Download fetches a URL to a file.
	Download
	// Unarchive extracts an archive (zip or tar.xz) into a directory.
	Unarchive
	// Exec runs an arbitrary command, always.
	Exec
	// Custom defers to a user-supplied build closure.
	Custom
)

func (k Kind) String() string {
	switch k {
	case Program:
		return "program"
	case StaticLibrary:
		return "static_library"
	case DynamicLibrary:
		return "dynamic_library"
	case Object:
		return "object"
	case ExternDynamicLibrary:
		return "extern_dynamic_library"
	case Download:
		return "download"
	case Unarchive:
		return "unarchive"
	case Exec:
		return "exec"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// ConfigurationSensitive reports whether this kind's BuiltTarget differs
// between configurations. Custom is treated as sensitive unless its closure
// states otherwise (the
// closure does so by calling BuiltTarget.ConfigurationInsensitive).
func (k Kind) ConfigurationSensitive() bool {
	switch k {
	case Download, Unarchive:
		return false
	default:
		return true
	}
}

// BuildClosure is the function value backing a Custom target. It receives
// the plan context and the target being materialized and must return a
// fully formed BuiltTarget.
type BuildClosure func(plan Plan, self *Target) (*BuiltTarget, error)

// LibraryPathFunc resolves an ExternDynamicLibrary's on-disk location from
// plan-time state, e.g. the output of a package's build step.
type LibraryPathFunc func(plan Plan) string

// A Target is the immutable-after-definition declaration of one build
// artifact. Common fields are populated for every kind; kind-specific
// fields are meaningful only for the Kind they're documented against.
type Target struct {
	// Name uniquely identifies this target within a DefinitionContext.
	Name string
	Kind Kind

	// Sources is the ordered, whitespace-split list of source files.
	Sources []string
	// Includes is the list of private include paths.
	Includes []string
	// Uses is the ordered list of other target names this target depends on.
	Uses []string
	// ExportIncludes, ExportLibraryOptions and LibraryPath are exported to
	// dependents when they materialize this target via Uses.
	ExportIncludes       []string
	ExportLibraryOptions []string
	LibraryPath          string
	// IsDefault marks this target as part of get_default_targets().
	IsDefault bool

	// URL is the Download kind's source location.
	URL string

	// Archive is the Unarchive kind's source target name.
	Archive string

	// Exec kind fields.
	ExecProgram       string
	ExecWorkingFolder string
	ExecArgs          []string
	ExecMaxTimeMS     int
	ExecLogOutput     bool
	ExecLogError      bool
	ExecLogName       string
	ExecIgnoreFail    bool

	// LibraryPathGenerator resolves an ExternDynamicLibrary's path at plan
	// time. Nil means the library is expected on the system linker path.
	LibraryPathGenerator LibraryPathFunc

	// BuildClosure, when set, takes over materialization of a Custom target
	// entirely.
	BuildClosure BuildClosure
}

// splitTokens implements the literal source/use token grammar: split on tab,
// newline or space, discarding empty tokens.
func splitTokens(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\t' || r == '\n' || r == ' '
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// A TargetHandle is the fluent builder returned by DefinitionContext's
// target-creation methods. Every setter returns the handle so calls can be
// chained.
type TargetHandle struct {
	t *Target
}

func newTargetHandle(t *Target) *TargetHandle { return &TargetHandle{t: t} }

// Target returns the underlying definition. Used by package definitions and
// the plan context; craftfiles normally only need the chainable setters.
func (h *TargetHandle) Target() *Target { return h.t }

// Source appends whitespace-delimited source file paths.
func (h *TargetHandle) Source(s string) *TargetHandle {
	h.t.Sources = append(h.t.Sources, splitTokens(s)...)
	return h
}

// Use appends whitespace-delimited names of other targets this one depends on.
func (h *TargetHandle) Use(s string) *TargetHandle {
	h.t.Uses = append(h.t.Uses, splitTokens(s)...)
	return h
}

// Include adds a private include path.
func (h *TargetHandle) Include(p string) *TargetHandle {
	h.t.Includes = append(h.t.Includes, p)
	return h
}

// ExportInclude adds an include path that dependents also see.
func (h *TargetHandle) ExportInclude(p string) *TargetHandle {
	h.t.ExportIncludes = append(h.t.ExportIncludes, p)
	return h
}

// ExportLibraryOptions adds link options that dependents also apply.
func (h *TargetHandle) ExportLibraryOptions(o string) *TargetHandle {
	h.t.ExportLibraryOptions = append(h.t.ExportLibraryOptions, splitTokens(o)...)
	return h
}

// LibraryPath sets a literal library search path (ExternDynamicLibrary).
func (h *TargetHandle) LibraryPath(p string) *TargetHandle {
	h.t.LibraryPath = p
	return h
}

// LibraryPathFrom sets a plan-time-resolved library search path, for an
// ExternDynamicLibrary target whose location is only known once its build
// closure has run.
func (h *TargetHandle) LibraryPathFrom(f LibraryPathFunc) *TargetHandle {
	h.t.LibraryPathGenerator = f
	return h
}

// IsDefault marks or unmarks this target as a default build target.
func (h *TargetHandle) IsDefault(b bool) *TargetHandle {
	h.t.IsDefault = b
	return h
}

// URL sets the Download kind's source location.
func (h *TargetHandle) URL(u string) *TargetHandle {
	h.t.URL = u
	return h
}

// FromArchive sets the Unarchive kind's source target name.
func (h *TargetHandle) FromArchive(name string) *TargetHandle {
	h.t.Archive = name
	return h
}

// Program sets the Exec kind's program path.
func (h *TargetHandle) Program(p string) *TargetHandle {
	h.t.ExecProgram = p
	return h
}

// WorkingFolder sets the Exec kind's working directory.
func (h *TargetHandle) WorkingFolder(p string) *TargetHandle {
	h.t.ExecWorkingFolder = p
	return h
}

// Args appends whitespace/quote-aware tokenized arguments to the Exec kind's
// argument list, shlex-tokenized unlike Source/Use so a quoted value can
// carry embedded spaces.
func (h *TargetHandle) Args(s string) *TargetHandle {
	tokens, err := shlexSplit(s)
	if err != nil {
		h.t.ExecArgs = append(h.t.ExecArgs, splitTokens(s)...)
		return h
	}
	h.t.ExecArgs = append(h.t.ExecArgs, tokens...)
	return h
}

// MaxTime sets the Exec kind's timeout in milliseconds; 0 means unbounded.
func (h *TargetHandle) MaxTime(ms int) *TargetHandle {
	h.t.ExecMaxTimeMS = ms
	return h
}

// LogOutput enables Verbose-level logging of the Exec kind's captured stdout.
func (h *TargetHandle) LogOutput(b bool) *TargetHandle {
	h.t.ExecLogOutput = b
	return h
}

// LogError enables Verbose-level logging of the Exec kind's captured stderr.
func (h *TargetHandle) LogError(b bool) *TargetHandle {
	h.t.ExecLogError = b
	return h
}

// LogName overrides the logging category used for this Exec target's output.
func (h *TargetHandle) LogName(name string) *TargetHandle {
	h.t.ExecLogName = name
	return h
}

// IgnoreFail makes the Exec kind's task always report success regardless of
// the child process' exit code.
func (h *TargetHandle) IgnoreFail(b bool) *TargetHandle {
	h.t.ExecIgnoreFail = b
	return h
}

// Build sets the Custom kind's build closure.
func (h *TargetHandle) Build(f BuildClosure) *TargetHandle {
	h.t.BuildClosure = f
	return h
}

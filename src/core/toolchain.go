package core

import (
	"github.com/Masterminds/semver/v3"

	"github.com/jordirovira/craft/src/platform"
)

// A Toolchain turns target-kind materialization decisions into concrete
// compiler/linker invocations. src/toolchain provides the GCC and MSVC
// implementations; core only depends on this interface so the two packages
// don't import each other.
type Toolchain interface {
	// Name identifies the backend, e.g. "gcc" or "msvc".
	Name() string
	// Version is the detected compiler version. The GCC and MSVC backends do
	// not consult it when assembling command lines.
	Version() *semver.Version

	// CompileDependencies discovers the headers source transitively includes,
	// resolving relative tokens against the working directory.
	CompileDependencies(workingDir, source string, includes []string) ([]string, error)

	// Compile invokes the backend's compile step for one translation unit.
	Compile(workingDir, source, output string, includes []string, cfg Configuration, plat platform.Platform) error
	// LinkProgram links objects and libs into an executable.
	LinkProgram(workingDir, output string, objects []string, libs []LinkDependency, cfg Configuration, plat platform.Platform) error
	// LinkStaticLibrary archives objects into a static library.
	LinkStaticLibrary(workingDir, output string, objects []string) error
	// LinkDynamicLibrary links objects and libs into a shared object.
	LinkDynamicLibrary(workingDir, output string, objects []string, libs []LinkDependency, cfg Configuration, plat platform.Platform) error

	// LinkProgramDependencies, LinkStaticLibraryDependencies and
	// LinkDynamicLibraryDependencies return the dependency paths staleness
	// analysis should check for each respective link step.
	// For both backends this is simply the object/library paths already
	// known to the plan; the method exists so a backend could add toolchain
	// files (e.g. a linker script) to the dependency set.
	LinkProgramDependencies(objects []string, libs []LinkDependency) []string
	LinkStaticLibraryDependencies(objects []string) []string
	LinkDynamicLibraryDependencies(objects []string, libs []LinkDependency) []string
}

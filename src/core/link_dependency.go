package core

// A LinkDependency describes one used library as the toolchain backend needs
// to see it when assembling a link command for a Program or DynamicLibrary
// target.
type LinkDependency struct {
	Kind        Kind   // DynamicLibrary, StaticLibrary or ExternDynamicLibrary
	Name        string // target name, used as the -l<name> argument
	OutputPath  string // DynamicLibrary/StaticLibrary: the built artifact's path
	LibraryPath string // ExternDynamicLibrary: resolved search directory, if any
}

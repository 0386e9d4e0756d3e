package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/platform"
	"github.com/jordirovira/craft/src/process"
)

// MSVC implements core.Toolchain against a cl.exe/lib.exe/link.exe
// installation.
type MSVC struct {
	exec    *process.Executor
	cl      string
	lib     string
	link    string
	version *semver.Version
}

// NewMSVC returns a ready-to-use MSVC backend. cl/lib/link default to
// "cl.exe"/"lib.exe"/"link.exe" when empty.
func NewMSVC(exec *process.Executor, cl, lib, link string) (*MSVC, error) {
	if cl == "" {
		cl = "cl.exe"
	}
	if lib == "" {
		lib = "lib.exe"
	}
	if link == "" {
		link = "link.exe"
	}
	m := &MSVC{exec: exec, cl: cl, lib: lib, link: link}
	out, _, _, err := exec.CombinedOutput(context.Background(), "", cl, nil, 0)
	if err == nil {
		m.version = versionFromClBanner(string(out))
	}
	if m.version == nil {
		m.version, _ = semver.NewVersion("0.0.0")
	}
	return m, nil
}

func versionFromClBanner(banner string) *semver.Version {
	for _, field := range strings.Fields(banner) {
		if v, err := semver.NewVersion(field); err == nil {
			return v
		}
	}
	return nil
}

// Name implements core.Toolchain.
func (m *MSVC) Name() string { return "msvc" }

// Version implements core.Toolchain.
func (m *MSVC) Version() *semver.Version { return m.version }

// CompileDependencies implements core.Toolchain using cl.exe's
// "/showIncludes /E" preprocessor-only dependency listing. MSVC writes one
// "Note: including file:  <path>" line per header to stderr, which this
// parses analogously to GCC's -MM output.
func (m *MSVC) CompileDependencies(workingDir, source string, includes []string) ([]string, error) {
	args := append([]string{"/nologo", "/showIncludes", "/E", "/Tp", source}, msvcIncludeFlags(includes)...)
	_, errOut, res, err := m.exec.CombinedOutput(context.Background(), workingDir, m.cl, args, 0)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("%s /showIncludes %s: exit status %d", m.cl, source, res.ExitCode)
	}
	var deps []string
	for _, line := range strings.Split(string(errOut), "\n") {
		line = strings.TrimSpace(line)
		const marker = "Note: including file:"
		if strings.HasPrefix(line, marker) {
			deps = append(deps, strings.TrimSpace(line[len(marker):]))
		}
	}
	return deps, nil
}

// Compile implements core.Toolchain's MSVC compile-command assembly:
// "/c /EHsc /I… /Tp <source>" and "/Fo\"<target>\"".
func (m *MSVC) Compile(workingDir, source, output string, includes []string, cfg core.Configuration, plat platform.Platform) error {
	args := []string{"/nologo", "/c", "/EHsc"}
	args = append(args, msvcIncludeFlags(includes)...)
	args = append(args, cfg.CompileFlags...)
	args = append(args, "/Tp", source, `/Fo"`+output+`"`)
	return m.run(workingDir, m.cl, args)
}

// LinkProgram implements core.Toolchain's MSVC program-link command assembly.
func (m *MSVC) LinkProgram(workingDir, output string, objects []string, libs []core.LinkDependency, cfg core.Configuration, plat platform.Platform) error {
	return m.link(workingDir, output, objects, libs, cfg, false)
}

// LinkDynamicLibrary implements core.Toolchain's MSVC DLL link command
// assembly (program link plus /DLL).
func (m *MSVC) LinkDynamicLibrary(workingDir, output string, objects []string, libs []core.LinkDependency, cfg core.Configuration, plat platform.Platform) error {
	return m.link(workingDir, output, objects, libs, cfg, true)
}

func (m *MSVC) link(workingDir, output string, objects []string, libs []core.LinkDependency, cfg core.Configuration, dll bool) error {
	args := []string{"/nologo", `/OUT:"` + output + `"`}
	args = append(args, objects...)
	args = append(args, msvcLibraryArgs(libs)...)
	args = append(args, cfg.LinkFlags...)
	if dll {
		args = append(args, "/DLL")
	}
	return m.run(workingDir, m.link, args)
}

// LinkStaticLibrary implements core.Toolchain's MSVC static-library archive
// step via lib.exe.
func (m *MSVC) LinkStaticLibrary(workingDir, output string, objects []string) error {
	args := append([]string{"/nologo", `/OUT:"` + output + `"`}, objects...)
	return m.run(workingDir, m.lib, args)
}

// LinkProgramDependencies implements core.Toolchain.
func (m *MSVC) LinkProgramDependencies(objects []string, libs []core.LinkDependency) []string {
	return append(append([]string(nil), objects...), staticLibPaths(libs)...)
}

// LinkStaticLibraryDependencies implements core.Toolchain.
func (m *MSVC) LinkStaticLibraryDependencies(objects []string) []string {
	return append([]string(nil), objects...)
}

// LinkDynamicLibraryDependencies implements core.Toolchain.
func (m *MSVC) LinkDynamicLibraryDependencies(objects []string, libs []core.LinkDependency) []string {
	return m.LinkProgramDependencies(objects, libs)
}

func (m *MSVC) run(workingDir, program string, args []string) error {
	res, err := m.exec.Run(context.Background(), workingDir, program, args, 0, logOutput(program), logOutput(program))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s %s: exit status %d", program, strings.Join(args, " "), res.ExitCode)
	}
	return nil
}

func msvcIncludeFlags(includes []string) []string {
	flags := make([]string, 0, len(includes))
	for _, i := range includes {
		flags = append(flags, "/I"+i)
	}
	return flags
}

func msvcLibraryArgs(libs []core.LinkDependency) []string {
	var args []string
	for _, l := range libs {
		switch l.Kind {
		case core.DynamicLibrary, core.StaticLibrary:
			args = append(args, l.OutputPath)
		case core.ExternDynamicLibrary:
			if l.LibraryPath != "" {
				args = append(args, `/LIBPATH:"`+l.LibraryPath+`"`)
			}
			args = append(args, l.Name+".lib")
		}
	}
	return args
}

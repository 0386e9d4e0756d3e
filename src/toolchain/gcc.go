package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jordirovira/craft/src/core"
	"github.com/jordirovira/craft/src/logging"
	"github.com/jordirovira/craft/src/platform"
	"github.com/jordirovira/craft/src/process"
)

var log = logging.MustGetLogger("toolchain")

// GCC implements core.Toolchain against a gcc/g++/ar installation.
type GCC struct {
	exec     *process.Executor
	compiler string
	archiver string
	version  *semver.Version
}

// NewGCC probes compiler for its version via "-dumpversion" and returns a
// ready-to-use GCC backend. compiler and archiver default to "g++" and "ar"
// when empty.
func NewGCC(exec *process.Executor, compiler, archiver string) (*GCC, error) {
	if compiler == "" {
		compiler = "g++"
	}
	if archiver == "" {
		archiver = "ar"
	}
	g := &GCC{exec: exec, compiler: compiler, archiver: archiver}
	out, _, _, err := exec.CombinedOutput(context.Background(), "", compiler, []string{"-dumpversion"}, 0)
	if err != nil {
		return nil, fmt.Errorf("probing %s version: %w", compiler, err)
	}
	v, err := semver.NewVersion(strings.TrimSpace(string(out)))
	if err != nil {
		v, _ = semver.NewVersion("0.0.0")
	}
	g.version = v
	return g, nil
}

// Name implements core.Toolchain.
func (g *GCC) Name() string { return "gcc" }

// Version implements core.Toolchain.
func (g *GCC) Version() *semver.Version { return g.version }

// CompileDependencies implements core.Toolchain using gcc's -MM dependency
// listing.
func (g *GCC) CompileDependencies(workingDir, source string, includes []string) ([]string, error) {
	args := append([]string{"-MM", "-x", "c++", source}, includeFlags(includes)...)
	out, _, res, err := g.exec.CombinedOutput(context.Background(), workingDir, g.compiler, args, 0)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("%s -MM %s: exit status %d", g.compiler, source, res.ExitCode)
	}
	return parseMakeRules(string(out), workingDir), nil
}

// Compile implements core.Toolchain's GCC compile-command assembly:
// "-std=c++11 -fPIC -c -x c++ <cfg_flags> <source> -I. -I
// <each include path> -o <target>", omitting -fPIC when targeting Windows.
func (g *GCC) Compile(workingDir, source, output string, includes []string, cfg core.Configuration, plat platform.Platform) error {
	args := []string{"-std=c++11"}
	if plat.OSName != platform.Windows {
		args = append(args, "-fPIC")
	}
	args = append(args, "-c", "-x", "c++")
	args = append(args, cfg.CompileFlags...)
	args = append(args, source, "-I.")
	args = append(args, includeFlags(includes)...)
	args = append(args, "-o", output)
	return g.run(workingDir, args)
}

// LinkProgram implements core.Toolchain's GCC program-link command assembly.
func (g *GCC) LinkProgram(workingDir, output string, objects []string, libs []core.LinkDependency, cfg core.Configuration, plat platform.Platform) error {
	return g.link(workingDir, output, objects, libs, cfg, false)
}

// LinkDynamicLibrary implements core.Toolchain's GCC dynamic-library link
// command assembly (program link plus -shared).
func (g *GCC) LinkDynamicLibrary(workingDir, output string, objects []string, libs []core.LinkDependency, cfg core.Configuration, plat platform.Platform) error {
	return g.link(workingDir, output, objects, libs, cfg, true)
}

func (g *GCC) link(workingDir, output string, objects []string, libs []core.LinkDependency, cfg core.Configuration, shared bool) error {
	args := []string{"-B", "/usr/bin", "-o", output}
	args = append(args, objects...)
	args = append(args, libraryArgs(libs)...)
	args = append(args, cfg.LinkFlags...)
	if shared {
		args = append(args, "-shared")
	}
	return g.run(workingDir, args)
}

// LinkStaticLibrary implements core.Toolchain's GCC static-library archive
// step: "ar -r -c -s <target> <object paths…>".
func (g *GCC) LinkStaticLibrary(workingDir, output string, objects []string) error {
	args := append([]string{"-r", "-c", "-s", output}, objects...)
	res, err := g.exec.Run(context.Background(), workingDir, g.archiver, args, 0, logOutput("ar"), logOutput("ar"))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s: exit status %d", g.archiver, res.ExitCode)
	}
	return nil
}

// LinkProgramDependencies implements core.Toolchain: the objects and the
// output paths of any used static or dynamic libraries are the dependency
// set for staleness purposes.
func (g *GCC) LinkProgramDependencies(objects []string, libs []core.LinkDependency) []string {
	return append(append([]string(nil), objects...), staticLibPaths(libs)...)
}

// LinkStaticLibraryDependencies implements core.Toolchain.
func (g *GCC) LinkStaticLibraryDependencies(objects []string) []string {
	return append([]string(nil), objects...)
}

// LinkDynamicLibraryDependencies implements core.Toolchain.
func (g *GCC) LinkDynamicLibraryDependencies(objects []string, libs []core.LinkDependency) []string {
	return g.LinkProgramDependencies(objects, libs)
}

func (g *GCC) run(workingDir string, args []string) error {
	res, err := g.exec.Run(context.Background(), workingDir, g.compiler, args, 0, logOutput(g.compiler), logOutput(g.compiler))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s %s: exit status %d", g.compiler, strings.Join(args, " "), res.ExitCode)
	}
	return nil
}

func logOutput(tag string) process.OutputCallback {
	return func(chunk []byte) {
		if len(chunk) > 0 {
			log.Debugf("[%s] %s", tag, string(chunk))
		}
	}
}

func includeFlags(includes []string) []string {
	flags := make([]string, 0, len(includes))
	for _, i := range includes {
		flags = append(flags, "-I", i)
	}
	return flags
}

// libraryArgs assembles the per-used-library link arguments in dependency
// order: DynamicLibrary -> "-l<name> -L<dir>"; extern -> optional
// "-L<path>" then "-l<name>"; StaticLibrary -> the literal archive path.
func libraryArgs(libs []core.LinkDependency) []string {
	var args []string
	for _, l := range libs {
		switch l.Kind {
		case core.DynamicLibrary:
			args = append(args, "-l"+l.Name, "-L"+dirOf(l.OutputPath))
		case core.ExternDynamicLibrary:
			if l.LibraryPath != "" {
				args = append(args, "-L"+l.LibraryPath)
			}
			args = append(args, "-l"+l.Name)
		case core.StaticLibrary:
			args = append(args, l.OutputPath)
		}
	}
	return args
}

func staticLibPaths(libs []core.LinkDependency) []string {
	var paths []string
	for _, l := range libs {
		if l.Kind == core.StaticLibrary || l.Kind == core.DynamicLibrary {
			paths = append(paths, l.OutputPath)
		}
	}
	return paths
}

func dirOf(path string) string {
	idx := strings.LastIndexAny(path, "/\\")
	if idx < 0 {
		return "."
	}
	return path[:idx]
}

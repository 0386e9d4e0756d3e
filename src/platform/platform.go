package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// An OS identifies an operating system family.
type OS string

// Arch identifies a processor architecture.
type Arch string

const (
	Linux   OS = "linux"
	Windows OS = "windows"
	Darwin  OS = "darwin"

	X32   Arch = "x32"
	X64   Arch = "x64"
	Arm64 Arch = "arm64"
)

// A Platform describes one of the machines craft can build for: an OS/arch pair
// plus the filename conventions that differ between them.
type Platform struct {
	OSName  OS
	ArchVal Arch
	// IsHostFlag is true for the Platform value that represents the machine craft is
	// currently running on.
	IsHostFlag bool
}

// Name returns a short identifier used as a build-root path component, e.g. "linux_x64".
func (p Platform) Name() string {
	return fmt.Sprintf("%s_%s", p.OSName, p.ArchVal)
}

// IsHost reports whether this Platform is the one craft is currently running on.
func (p Platform) IsHost() bool {
	return p.IsHostFlag
}

// ProgramFileName returns the conventional executable filename for basename on this platform,
// e.g. "app" on Linux/macOS, "app.exe" on Windows.
func (p Platform) ProgramFileName(basename string) string {
	if p.OSName == Windows {
		return basename + ".exe"
	}
	return basename
}

// ObjectFileName returns the conventional object-file name for basename on this platform.
func (p Platform) ObjectFileName(basename string) string {
	if p.OSName == Windows {
		return basename + ".obj"
	}
	return basename + ".o"
}

// StaticLibraryFileName returns the conventional static-library filename for basename.
func (p Platform) StaticLibraryFileName(basename string) string {
	if p.OSName == Windows {
		return basename + ".lib"
	}
	return "lib" + basename + ".a"
}

// DynamicLibraryFileName returns the conventional dynamic-library filename for basename.
func (p Platform) DynamicLibraryFileName(basename string) string {
	switch p.OSName {
	case Windows:
		return basename + ".dll"
	case Darwin:
		return "lib" + basename + ".dylib"
	default:
		return "lib" + basename + ".so"
	}
}

// BootstrapScriptName returns the name of the bootstrap script package definitions
// invoke to build their vendored build tool, e.g. b2/bjam for boost.
func (p Platform) BootstrapScriptName() string {
	if p.OSName == Windows {
		return "bootstrap.bat"
	}
	return "bootstrap.sh"
}

// BuildToolName returns the name of the build tool produced by BootstrapScriptName.
func (p Platform) BuildToolName() string {
	return p.ProgramFileName("b2")
}

// Built-in platforms craft ships support for out of the box.
var (
	LinuxX32    = Platform{OSName: Linux, ArchVal: X32}
	LinuxX64    = Platform{OSName: Linux, ArchVal: X64}
	WindowsX64  = Platform{OSName: Windows, ArchVal: X64}
	DarwinX64   = Platform{OSName: Darwin, ArchVal: X64}
	DarwinArm64 = Platform{OSName: Darwin, ArchVal: Arm64}
)

// All is the list of platforms craft knows about out of the box.
var All = []Platform{LinuxX32, LinuxX64, WindowsX64, DarwinX64, DarwinArm64}

// Host returns the Platform describing the machine craft is currently running on.
func Host() Platform {
	p := hostPlatform()
	p.IsHostFlag = true
	return p
}

// JoinBuildRoot derives the build tree root:
// "<workspace>/build[/<host-platform>][/<target-platform>]". The
// platform components are omitted when target equals host, since builds for
// the host platform are the overwhelmingly common case and the original tool
// keeps that path short.
func JoinBuildRoot(workspace string, host, target Platform) string {
	root := filepath.Join(workspace, "build")
	if target.Name() == host.Name() {
		return root
	}
	return filepath.Join(root, host.Name(), target.Name())
}

func hostPlatform() Platform {
	var os OS
	switch runtime.GOOS {
	case "windows":
		os = Windows
	case "darwin":
		os = Darwin
	default:
		os = Linux
	}
	var arch Arch
	switch runtime.GOARCH {
	case "386":
		arch = X32
	case "arm64":
		arch = Arm64
	default:
		arch = X64
	}
	return Platform{OSName: os, ArchVal: arch}
}

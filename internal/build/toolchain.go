package build

import (
	"fmt"
	"strings"

	"github.com/arbor-build/arbor/internal/artifact"
)

// Toolchain synthesizes the command line for each artifact variant. The
// exact programs and flags are a configuration concern; the build visitor
// only asks for "build target X from dependency list Y".
type Toolchain struct {
	// Compiler compiles objects and links shared libraries and executables.
	Compiler string
	// Archiver creates static libraries.
	Archiver string
	// CompileFlags are passed to every compile and link invocation.
	CompileFlags string
}

// DefaultToolchain returns a gcc/ar toolchain with debug-friendly flags.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Compiler:     "gcc",
		Archiver:     "ar",
		CompileFlags: "-g -Wall",
	}
}

// joinPaths renders a dependency list as a space-separated path string.
func joinPaths(deps []artifact.Artifact) string {
	paths := make([]string, len(deps))
	for i, d := range deps {
		paths[i] = d.Path()
	}
	return strings.Join(paths, " ")
}

// CompileObject compiles a single source into an object file.
func (t Toolchain) CompileObject(target string, deps []artifact.Artifact) string {
	return fmt.Sprintf("%s %s -o %s -c %s", t.Compiler, t.CompileFlags, target, joinPaths(deps))
}

// ArchiveStaticLibrary archives objects into a static library.
func (t Toolchain) ArchiveStaticLibrary(target string, deps []artifact.Artifact) string {
	return fmt.Sprintf("%s rcs %s %s", t.Archiver, target, joinPaths(deps))
}

// LinkSharedLibrary links objects into a shared library.
func (t Toolchain) LinkSharedLibrary(target string, deps []artifact.Artifact) string {
	return fmt.Sprintf("%s -shared %s -o %s %s", t.Compiler, t.CompileFlags, target, joinPaths(deps))
}

// LinkExecutable links a mix of sources and objects into an executable.
func (t Toolchain) LinkExecutable(target string, deps []artifact.Artifact) string {
	return fmt.Sprintf("%s %s -o %s %s", t.Compiler, t.CompileFlags, target, joinPaths(deps))
}

package manifest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-build/arbor/internal/ctxlog"
)

func testCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func writeManifest(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoadSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "project.hcl")
	writeManifest(t, path, `
project {
  source_dir = "sources"
}

toolchain {
  compiler = "clang"
}

static_library "libscan.a" {
  objects = ["scanner.o", "table.o"]
}

executable "scanner_check" {
  deps = ["scanner_check.c", "scanner.o"]
}
`)

	m, err := Load(testCtx(), path, "debug")
	require.NoError(t, err)

	assert.Equal(t, dir, m.Root)
	assert.Equal(t, "sources", m.Project.SourceDir)
	// Unset fields fall back to defaults.
	assert.Equal(t, "test", m.Project.TestDir)
	assert.Equal(t, ".c", m.Project.SourceSuffix)
	assert.Equal(t, "clang", m.Toolchain.Compiler)
	assert.Equal(t, "ar", m.Toolchain.Archiver)

	require.Len(t, m.StaticLibraries, 1)
	assert.Equal(t, "libscan.a", m.StaticLibraries[0].Name)
	assert.Equal(t, []string{"scanner.o", "table.o"}, m.StaticLibraries[0].Objects)

	require.Len(t, m.Executables, 1)
	assert.Equal(t, []string{"scanner_check.c", "scanner.o"}, m.Executables[0].Deps)
}

func TestLoadDirectoryMergesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "project.hcl"), `
project {}
static_library "liba.a" { objects = ["a.o"] }
`)
	writeManifest(t, filepath.Join(dir, "targets", "tests.hcl"), `
executable "check" { deps = ["check.c", "a.o"] }
`)

	m, err := Load(testCtx(), dir, "debug")
	require.NoError(t, err)

	assert.Equal(t, dir, m.Root)
	assert.Len(t, m.StaticLibraries, 1)
	assert.Len(t, m.Executables, 1)
}

func TestLoadRejectsDuplicateProjectBlock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "a.hcl"), `project {}`)
	writeManifest(t, filepath.Join(dir, "b.hcl"), `project {}`)

	_, err := Load(testCtx(), dir, "debug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate project block")
}

func TestLoadEvaluatesModeAndRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "project.hcl")
	writeManifest(t, path, `
project {
  object_dir = "out/${mode}"
}

toolchain {
  compile_flags = mode == "release" ? "-O2" : "-g -Wall"
}
`)

	m, err := Load(testCtx(), path, "release")
	require.NoError(t, err)

	assert.Equal(t, "out/release", m.Project.ObjectDir)
	assert.Equal(t, "-O2", m.Toolchain.CompileFlags)
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.hcl")
	writeManifest(t, path, `static_library "lib.a" {`)

	_, err := Load(testCtx(), path, "debug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadEmptyDirectory(t *testing.T) {
	t.Parallel()

	_, err := Load(testCtx(), t.TempDir(), "debug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl manifest files")
}

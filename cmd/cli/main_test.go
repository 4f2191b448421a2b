package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-build/arbor/internal/build"
	"github.com/arbor-build/arbor/internal/graph"
)

// writeProject lays out a minimal C project with a manifest and returns the
// manifest path.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "src", "scanner.c"),
		[]byte("int scan(void) { return 0; }\n"), 0o644))

	manifestPath := filepath.Join(root, "project.hcl")
	manifest := `
static_library "libscan.a" {
  objects = ["scanner.o"]
}
`
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o600))
	return manifestPath
}

func TestRun_GraphExport(t *testing.T) {
	t.Parallel()

	manifestPath := writeProject(t)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	err := run(out, errOut, []string{"-graph", manifestPath})
	require.NoError(t, err)

	dot := out.String()
	assert.True(t, strings.HasPrefix(dot, "digraph {"), "export must open a digraph block")
	assert.Contains(t, dot, "scanner_c [label=")
	assert.Contains(t, dot, "libscan_a -> scanner_o")
	assert.Contains(t, dot, "scanner_o -> scanner_c")
}

func TestRun_Plan(t *testing.T) {
	t.Parallel()

	manifestPath := writeProject(t)
	out := &bytes.Buffer{}

	err := run(out, &bytes.Buffer{}, []string{"-plan", manifestPath})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "scanner.c"))
	assert.True(t, strings.HasSuffix(lines[1], filepath.Join("dbg", "scanner.o")))
	assert.True(t, strings.HasSuffix(lines[2], "libscan.a"))
}

func TestRun_ResolutionFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	manifestPath := filepath.Join(root, "project.hcl")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
static_library "lib.a" { objects = ["missing.o"] }
`), 0o600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"-plan", manifestPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.c")
	// Resolution failures exit 2, like other usage errors.
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, exitCode(&build.ToolchainExitError{Command: "gcc", Status: 4}))
	assert.Equal(t, 4, exitCode(fmt.Errorf("wrapped: %w",
		&build.ToolchainExitError{Command: "gcc", Status: 4})))

	assert.Equal(t, 2, exitCode(&graph.SourceNotFoundError{Name: "missing.c"}))
	assert.Equal(t, 2, exitCode(fmt.Errorf("wrapped: %w",
		&graph.AmbiguousSourceError{Name: "scanner.c", Candidates: []string{"a", "b"}})))

	assert.Equal(t, 1, exitCode(errors.New("anything else")))
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	err := run(out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	assert.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

package graph

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-build/arbor/internal/artifact"
	"github.com/arbor-build/arbor/internal/ctxlog"
)

func testCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// newProject lays out a temp project directory with the given source files
// (paths relative to the project root) and returns its layout.
func newProject(t *testing.T, files ...string) Layout {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))
	}
	return Layout{
		Root:         root,
		SourceDir:    filepath.Join(root, "src"),
		TestDir:      filepath.Join(root, "test"),
		ObjectDir:    filepath.Join(root, "obj", "dbg"),
		BinDir:       filepath.Join(root, "bin"),
		TestBinDir:   filepath.Join(root, "test", "bin"),
		SourceSuffix: ".c",
		ObjectSuffix: ".o",
	}
}

func TestResolutionIsMemoized(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "src/scanner.c", "src/table.c")
	b := NewBuilder(layout)
	ctx := testCtx()

	require.NoError(t, b.AddStaticLibrary(ctx, "libscan.a", "scanner.o", "table.o"))
	require.NoError(t, b.AddSharedLibrary(ctx, "libscan.so", "scanner.o", "table.o"))

	require.Len(t, b.Roots(), 2)
	static := b.Roots()[0].(*artifact.StaticLibrary)
	shared := b.Roots()[1].(*artifact.SharedLibrary)

	// Both libraries reference the identical object instances, not copies.
	require.Len(t, static.Objects(), 2)
	require.Len(t, shared.Objects(), 2)
	assert.Same(t, static.Objects()[0], shared.Objects()[0])
	assert.Same(t, static.Objects()[1], shared.Objects()[1])
	// And the objects share one source instance per name.
	assert.Same(t, static.Objects()[0].Source(), shared.Objects()[0].Source())
}

func TestObjectPathMirrorsSourceTree(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "src/lexer/scanner.c")
	b := NewBuilder(layout)

	obj, err := b.object(testCtx(), "scanner.o")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(layout.ObjectDir, "lexer", "scanner.o"), obj.Path())
	assert.Equal(t, filepath.Join(layout.SourceDir, "lexer", "scanner.c"), obj.Source().Path())
}

func TestTestTreeFallback(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "src/scanner.c", "test/scanner_check.c")
	b := NewBuilder(layout)
	ctx := testCtx()

	require.NoError(t, b.AddExecutable(ctx, "scanner_check", "scanner_check.c", "scanner.o"))

	exe := b.Roots()[0].(*artifact.Executable)
	assert.Equal(t, filepath.Join(layout.TestBinDir, "scanner_check"), exe.Path())

	deps := exe.Dependencies()
	require.Len(t, deps, 2)
	// First dep carries the source suffix and resolved as a raw source
	// from the test tree; second resolved as an object.
	src, ok := deps[0].(*artifact.Source)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(layout.TestDir, "scanner_check.c"), src.Path())
	_, ok = deps[1].(*artifact.Object)
	assert.True(t, ok)
}

func TestTestTreeObjectPath(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "test/harness.c")
	b := NewBuilder(layout)

	obj, err := b.object(testCtx(), "harness.o")
	require.NoError(t, err)
	// A test-tree source yields an object rooted at the object dir, relative
	// to the test tree.
	assert.Equal(t, filepath.Join(layout.ObjectDir, "harness.o"), obj.Path())
}

func TestSourceNotFound(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "src/scanner.c")
	b := NewBuilder(layout)

	err := b.AddStaticLibrary(testCtx(), "libscan.a", "missing.o")

	var notFound *SourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing.c", notFound.Name)
	assert.Empty(t, b.Roots(), "a failed registration must not append a root")
}

func TestAmbiguousSource(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "src/lexer/scanner.c", "src/parser/scanner.c")
	b := NewBuilder(layout)

	err := b.AddStaticLibrary(testCtx(), "libscan.a", "scanner.o")

	var ambiguous *AmbiguousSourceError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "scanner.c", ambiguous.Name)
	assert.Len(t, ambiguous.Candidates, 2)
}

func TestAcceptWalksRootsInRegistrationOrder(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "src/a.c", "src/b.c")
	b := NewBuilder(layout)
	ctx := testCtx()

	require.NoError(t, b.AddStaticLibrary(ctx, "libb.a", "b.o"))
	require.NoError(t, b.AddStaticLibrary(ctx, "liba.a", "a.o"))

	roots := b.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, filepath.Join(layout.BinDir, "libb.a"), roots[0].Path())
	assert.Equal(t, filepath.Join(layout.BinDir, "liba.a"), roots[1].Path())
}

func TestWriteGraph(t *testing.T) {
	t.Parallel()

	layout := newProject(t, "src/a.c")
	b := NewBuilder(layout)
	ctx := testCtx()
	require.NoError(t, b.AddExecutable(ctx, "check", "a.o"))

	var buf strings.Builder
	require.NoError(t, b.WriteGraph(ctx, &buf))

	out := buf.String()
	assert.Contains(t, out, "digraph {")
	assert.Contains(t, out, "a_c [label=")
	assert.Contains(t, out, "a_o -> a_c")
	assert.Contains(t, out, "check -> a_o")
}

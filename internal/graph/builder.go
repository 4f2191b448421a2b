// Package graph assembles the artifact dependency graph. The Builder
// translates symbolic names (object, library and executable names from the
// project manifest) into concrete artifact instances, memoizing every
// resolution so that a name shared between targets yields one node, not two
// equal copies. That single-instance guarantee is what gives diamond
// dependencies true structural sharing.
package graph

import (
	"context"
	"io"

	"github.com/arbor-build/arbor/internal/artifact"
	"github.com/arbor-build/arbor/internal/ctxlog"
	"github.com/arbor-build/arbor/internal/dot"
)

// Layout describes where a project keeps its sources and where built
// artifacts land. All directories are absolute or relative to the process
// working directory; ObjectDir is already mode-specific (debug vs release).
type Layout struct {
	// Root is the project root, used only as the label of exported graphs.
	Root string
	// SourceDir is the primary tree searched for source files.
	SourceDir string
	// TestDir is the fallback tree searched when SourceDir has no match.
	TestDir string
	// ObjectDir is where compiled objects land, mirroring the source tree.
	ObjectDir string
	// BinDir is where libraries land.
	BinDir string
	// TestBinDir is where executables land.
	TestBinDir string
	// SourceSuffix is the file suffix of source files, e.g. ".c".
	SourceSuffix string
	// ObjectSuffix is the file suffix of object files, e.g. ".o".
	ObjectSuffix string
}

// Builder owns the name→artifact cache and the list of registered root
// targets. It is not safe for concurrent use; traversal and resolution are
// strictly sequential.
type Builder struct {
	layout    Layout
	artifacts map[string]artifact.Artifact
	roots     []artifact.Artifact
}

// NewBuilder creates an empty builder for the given project layout.
func NewBuilder(layout Layout) *Builder {
	return &Builder{
		layout:    layout,
		artifacts: make(map[string]artifact.Artifact),
	}
}

// AddStaticLibrary resolves a static library and its member objects by name
// and registers it as a root target. Resolution failures surface here, at
// graph construction time, before any build activity begins.
func (b *Builder) AddStaticLibrary(ctx context.Context, name string, objectNames ...string) error {
	lib, err := b.staticLibrary(ctx, name, objectNames)
	if err != nil {
		return err
	}
	b.roots = append(b.roots, lib)
	return nil
}

// AddSharedLibrary resolves a shared library and its member objects by name
// and registers it as a root target.
func (b *Builder) AddSharedLibrary(ctx context.Context, name string, objectNames ...string) error {
	lib, err := b.sharedLibrary(ctx, name, objectNames)
	if err != nil {
		return err
	}
	b.roots = append(b.roots, lib)
	return nil
}

// AddExecutable resolves an executable and its dependencies by name and
// registers it as a root target. Each dependency name resolves as a raw
// source if it carries the source suffix, as an object otherwise.
func (b *Builder) AddExecutable(ctx context.Context, name string, depNames ...string) error {
	exe, err := b.executable(ctx, name, depNames)
	if err != nil {
		return err
	}
	b.roots = append(b.roots, exe)
	return nil
}

// Roots returns the registered root targets in registration order.
func (b *Builder) Roots() []artifact.Artifact {
	return b.roots
}

// Accept walks every registered root with the given visitor, in
// registration order. The first error aborts the walk.
func (b *Builder) Accept(ctx context.Context, v artifact.Visitor) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Walking registered roots.", "count", len(b.roots))
	for _, root := range b.roots {
		if err := root.Accept(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// WriteGraph renders every registered root as one Graphviz directed graph,
// wrapped in a synthetic root node so the output is a single digraph block.
func (b *Builder) WriteGraph(ctx context.Context, w io.Writer) error {
	root := dot.NewRoot(w, b.layout.Root, b.roots...)
	return root.Accept(ctx, dot.NewVisitor(w))
}

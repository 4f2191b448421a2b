package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arbor-build/arbor/internal/build"
	"github.com/arbor-build/arbor/internal/ctxlog"
	"github.com/arbor-build/arbor/internal/graph"
	"github.com/arbor-build/arbor/internal/manifest"
)

// Run executes the main application logic: load the manifest, assemble the
// dependency graph, then build, export, or print the plan per config.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode())

	m, err := manifest.Load(ctx, a.config.ProjectPath, a.config.Mode())
	if err != nil {
		return fmt.Errorf("failed to load project manifest: %w", err)
	}

	b := graph.NewBuilder(layoutFor(m, a.config.Release))
	if err := registerTargets(ctx, b, m); err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "root_count", len(b.Roots()))

	switch {
	case a.config.Graph:
		return b.WriteGraph(ctx, a.outW)
	case a.config.Plan:
		return a.printPlan(b)
	default:
		return a.build(ctx, b, m)
	}
}

// layoutFor composes the graph layout from the manifest's directory
// conventions and the selected build mode.
func layoutFor(m *manifest.Manifest, release bool) graph.Layout {
	modeDir := "dbg"
	if release {
		modeDir = "rls"
	}
	return graph.Layout{
		Root:         m.Root,
		SourceDir:    filepath.Join(m.Root, m.Project.SourceDir),
		TestDir:      filepath.Join(m.Root, m.Project.TestDir),
		ObjectDir:    filepath.Join(m.Root, m.Project.ObjectDir, modeDir),
		BinDir:       filepath.Join(m.Root, m.Project.BinaryDir),
		TestBinDir:   filepath.Join(m.Root, m.Project.TestDir, "bin"),
		SourceSuffix: m.Project.SourceSuffix,
		ObjectSuffix: m.Project.ObjectSuffix,
	}
}

// registerTargets resolves every manifest target into a graph root, in
// manifest order. A resolution failure aborts before any build activity.
func registerTargets(ctx context.Context, b *graph.Builder, m *manifest.Manifest) error {
	for _, lib := range m.StaticLibraries {
		if err := b.AddStaticLibrary(ctx, lib.Name, lib.Objects...); err != nil {
			return err
		}
	}
	for _, lib := range m.SharedLibraries {
		if err := b.AddSharedLibrary(ctx, lib.Name, lib.Objects...); err != nil {
			return err
		}
	}
	for _, exe := range m.Executables {
		if err := b.AddExecutable(ctx, exe.Name, exe.Deps...); err != nil {
			return err
		}
	}
	return nil
}

// build walks the graph with the build visitor, rebuilding stale targets.
func (a *App) build(ctx context.Context, b *graph.Builder, m *manifest.Manifest) error {
	toolchain := build.Toolchain{
		Compiler:     m.Toolchain.Compiler,
		Archiver:     m.Toolchain.Archiver,
		CompileFlags: m.Toolchain.CompileFlags,
	}
	runner := &build.ShellRunner{Stdout: a.outW, Stderr: a.errW}

	a.logger.Info("Starting build.", "roots", len(b.Roots()))
	if err := b.Accept(ctx, build.NewVisitor(toolchain, runner, a.outW)); err != nil {
		return err
	}
	a.logger.Info("Build finished.")
	return nil
}

// printPlan writes the topologically ordered build plan, one path per line.
func (a *App) printPlan(b *graph.Builder) error {
	plan, err := b.Plan()
	if err != nil {
		return err
	}
	for _, target := range plan {
		if _, err := fmt.Fprintln(a.outW, target.Path()); err != nil {
			return err
		}
	}
	return nil
}

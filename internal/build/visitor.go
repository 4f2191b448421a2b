// Package build makes the on-disk state match the artifact graph. Its
// visitor compares modification times to decide which targets are stale and
// hands the rebuild commands to an external process runner. Execution is
// strictly sequential: a dependency is fully rebuilt before any of its
// dependents is even examined.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arbor-build/arbor/internal/artifact"
	"github.com/arbor-build/arbor/internal/ctxlog"
)

// command synthesizes the toolchain invocation for one target.
type command func(target string, deps []artifact.Artifact) string

// Visitor is the build action. Each node is processed at most once per run:
// a diamond dependency reached through two parents gets one staleness check
// and at most one rebuild.
type Visitor struct {
	toolchain Toolchain
	runner    Runner
	out       io.Writer
	visited   map[string]struct{}
}

// NewVisitor creates a build visitor. Directory-creation notices and the
// exact command lines are echoed to out before execution.
func NewVisitor(toolchain Toolchain, runner Runner, out io.Writer) *Visitor {
	return &Visitor{
		toolchain: toolchain,
		runner:    runner,
		out:       out,
		visited:   make(map[string]struct{}),
	}
}

// seen records the path and reports whether it was already processed.
func (v *Visitor) seen(path string) bool {
	if _, ok := v.visited[path]; ok {
		return true
	}
	v.visited[path] = struct{}{}
	return false
}

// VisitSource verifies the source file exists; sources are never built.
func (v *Visitor) VisitSource(ctx context.Context, s *artifact.Source) error {
	if v.seen(s.Path()) {
		return nil
	}
	if _, err := os.Stat(s.Path()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingSourceError{Path: s.Path()}
		}
		return err
	}
	ctxlog.FromContext(ctx).Debug("Source present.", "path", s.Path())
	return nil
}

// VisitObject compiles the object's source if the object is stale.
func (v *Visitor) VisitObject(ctx context.Context, o *artifact.Object) error {
	return v.buildTarget(ctx, o, v.toolchain.CompileObject)
}

// VisitStaticLibrary archives the member objects if the library is stale.
func (v *Visitor) VisitStaticLibrary(ctx context.Context, l *artifact.StaticLibrary) error {
	return v.buildTarget(ctx, l, v.toolchain.ArchiveStaticLibrary)
}

// VisitSharedLibrary links the member objects if the library is stale.
func (v *Visitor) VisitSharedLibrary(ctx context.Context, l *artifact.SharedLibrary) error {
	return v.buildTarget(ctx, l, v.toolchain.LinkSharedLibrary)
}

// VisitExecutable links the dependencies if the executable is stale.
func (v *Visitor) VisitExecutable(ctx context.Context, e *artifact.Executable) error {
	return v.buildTarget(ctx, e, v.toolchain.LinkExecutable)
}

// buildTarget runs the staleness check and, when needed, the rebuild for a
// non-leaf node. A fresh target leaves the toolchain untouched.
func (v *Visitor) buildTarget(ctx context.Context, a artifact.Artifact, makeCommand command) error {
	if v.seen(a.Path()) {
		return nil
	}

	logger := ctxlog.FromContext(ctx)
	stale, err := v.stale(a)
	if err != nil {
		return err
	}
	if !stale {
		logger.Debug("Target up to date.", "path", a.Path())
		return nil
	}

	if err := v.makeParentDirectory(a); err != nil {
		return err
	}

	cmd := makeCommand(a.Path(), a.Dependencies())
	fmt.Fprintln(v.out, cmd)
	logger.Info("Rebuilding target.", "path", a.Path())

	status, err := v.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to run %q: %w", cmd, err)
	}
	if status != 0 {
		return &ToolchainExitError{Command: cmd, Status: status}
	}
	return nil
}

// stale reports whether the target must be rebuilt: it is stale when absent
// or strictly older than any of its dependencies. Post-order traversal
// guarantees every dependency already exists when this runs.
func (v *Visitor) stale(a artifact.Artifact) (bool, error) {
	info, err := os.Stat(a.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	for _, dep := range a.Dependencies() {
		depInfo, err := os.Stat(dep.Path())
		if err != nil {
			return false, err
		}
		if depInfo.ModTime().After(info.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

// makeParentDirectory ensures the target's containing directory exists.
// Pre-existence is a silent no-op; only an actual creation is announced.
func (v *Visitor) makeParentDirectory(a artifact.Artifact) error {
	dir := filepath.Dir(a.Path())
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fmt.Fprintf(v.out, "Created directory: %s\n", dir)
	return nil
}

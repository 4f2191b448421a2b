// Package artifact defines the nodes of the build graph and the visitor
// protocol used to traverse them.
//
// An Artifact is anything the orchestrator knows how to reason about: a
// source file on disk, a compiled object, a library, or an executable. The
// graph itself carries no action logic; it only knows how to hand each node
// to a Visitor in dependency order. Actions (building, exporting a diagram)
// live entirely in their Visitor implementations, which keeps new actions
// addable without touching the node types.
package artifact

import "context"

// Artifact is a single node in the build graph. Two artifacts are the same
// node iff their paths are equal; the graph builder guarantees at most one
// in-memory instance per symbolic name, so visited sets keyed by path
// coincide with instance identity.
type Artifact interface {
	// Path returns the artifact's on-disk identity.
	Path() string

	// Dependencies returns the artifacts this one is built from, in the
	// order they were declared at construction. The returned slice is
	// stable across calls and must not be mutated.
	Dependencies() []Artifact

	// Accept traverses this artifact's dependencies depth-first (each via
	// its own Accept) and then applies the visitor to the artifact itself.
	// Dependencies are therefore always visited before their dependents.
	// Accept does not deduplicate revisits of shared dependencies; that
	// responsibility belongs to the visitor. The first error aborts the
	// traversal and propagates to the caller.
	Accept(ctx context.Context, v Visitor) error
}

// Visitor is an action applied to every node of the graph. Each artifact
// variant dispatches to its own method, so a visitor never needs to branch
// on node types.
type Visitor interface {
	VisitSource(ctx context.Context, s *Source) error
	VisitObject(ctx context.Context, o *Object) error
	VisitStaticLibrary(ctx context.Context, l *StaticLibrary) error
	VisitSharedLibrary(ctx context.Context, l *SharedLibrary) error
	VisitExecutable(ctx context.Context, e *Executable) error
}

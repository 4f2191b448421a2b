// Package dot renders the artifact graph as a Graphviz directed graph. It
// is a pure export: nothing on disk is touched, and a node shared between
// several parents is declared once no matter how many paths reach it.
package dot

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	"github.com/arbor-build/arbor/internal/artifact"
)

// edge identifies one parent→child pair for deduplication.
type edge struct {
	from, to string
}

// Visitor writes node and edge declarations for every artifact it visits.
// Two visited sets keep the output minimal: one for nodes already declared,
// one for edges already drawn.
type Visitor struct {
	w     io.Writer
	nodes map[string]struct{}
	edges map[edge]struct{}
}

// NewVisitor creates an export visitor writing to w.
func NewVisitor(w io.Writer) *Visitor {
	return &Visitor{
		w:     w,
		nodes: make(map[string]struct{}),
		edges: make(map[edge]struct{}),
	}
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9_]`)

// nodeID derives a Graphviz identifier from the artifact's file name.
func nodeID(a artifact.Artifact) string {
	return nonIdentifier.ReplaceAllString(filepath.Base(a.Path()), "_")
}

// writeNode declares a node once; the label is the full on-disk path.
func (v *Visitor) writeNode(a artifact.Artifact) error {
	if _, ok := v.nodes[a.Path()]; ok {
		return nil
	}
	v.nodes[a.Path()] = struct{}{}
	_, err := fmt.Fprintf(v.w, "  %s [label=%q]\n", nodeID(a), a.Path())
	return err
}

// writeEdge draws a parent→child edge once per distinct pair.
func (v *Visitor) writeEdge(from, to artifact.Artifact) error {
	e := edge{from: from.Path(), to: to.Path()}
	if _, ok := v.edges[e]; ok {
		return nil
	}
	v.edges[e] = struct{}{}
	_, err := fmt.Fprintf(v.w, "  %s -> %s\n", nodeID(from), nodeID(to))
	return err
}

// writeNodeWithEdges declares the node and one edge per dependency.
func (v *Visitor) writeNodeWithEdges(a artifact.Artifact) error {
	if err := v.writeNode(a); err != nil {
		return err
	}
	for _, dep := range a.Dependencies() {
		if err := v.writeEdge(a, dep); err != nil {
			return err
		}
	}
	return nil
}

// VisitSource declares the source node; sources have no outgoing edges.
func (v *Visitor) VisitSource(_ context.Context, s *artifact.Source) error {
	return v.writeNode(s)
}

// VisitObject declares the object node and its edge to the source.
func (v *Visitor) VisitObject(_ context.Context, o *artifact.Object) error {
	return v.writeNodeWithEdges(o)
}

// VisitStaticLibrary declares the library node and one edge per member object.
func (v *Visitor) VisitStaticLibrary(_ context.Context, l *artifact.StaticLibrary) error {
	return v.writeNodeWithEdges(l)
}

// VisitSharedLibrary declares the library node and one edge per member object.
func (v *Visitor) VisitSharedLibrary(_ context.Context, l *artifact.SharedLibrary) error {
	return v.writeNodeWithEdges(l)
}

// VisitExecutable declares the executable node and one edge per dependency.
func (v *Visitor) VisitExecutable(_ context.Context, e *artifact.Executable) error {
	return v.writeNodeWithEdges(e)
}

// Root is the synthetic traversal entry point for exports. It is not a real
// build node: it only wraps the registered roots in a single digraph block.
type Root struct {
	w     io.Writer
	path  string
	roots []artifact.Artifact
}

// NewRoot creates an export root labeled with the project path.
func NewRoot(w io.Writer, path string, roots ...artifact.Artifact) *Root {
	owned := make([]artifact.Artifact, len(roots))
	copy(owned, roots)
	return &Root{w: w, path: path, roots: owned}
}

// Path returns the project path the root is labeled with.
func (r *Root) Path() string { return r.path }

// Dependencies returns nil: the root is a traversal entry point, not a
// build node with prerequisites.
func (r *Root) Dependencies() []artifact.Artifact { return nil }

// Accept emits the digraph wrapper around the traversal of every root.
func (r *Root) Accept(ctx context.Context, v artifact.Visitor) error {
	if _, err := fmt.Fprintln(r.w, "digraph {"); err != nil {
		return err
	}
	for _, a := range r.roots {
		if err := a.Accept(ctx, v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.w, "}")
	return err
}

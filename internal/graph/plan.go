package graph

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"

	"github.com/arbor-build/arbor/internal/artifact"
)

// Plan flattens the registered roots into a validated DAG and returns the
// artifacts in topological order: every dependency appears before each of
// its dependents, and a node shared between roots appears exactly once.
// Ties between independent nodes are broken by path for stable output.
func (b *Builder) Plan() ([]artifact.Artifact, error) {
	dg := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	byPath := make(map[string]artifact.Artifact)

	var add func(a artifact.Artifact) error
	add = func(a artifact.Artifact) error {
		// A subtree already flattened once need not be walked again; its
		// vertices and internal edges are all in place.
		if _, ok := byPath[a.Path()]; ok {
			return nil
		}
		if err := dg.AddVertex(a.Path()); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add vertex %s: %w", a.Path(), err)
		}
		byPath[a.Path()] = a
		for _, dep := range a.Dependencies() {
			if err := add(dep); err != nil {
				return err
			}
			// AddEdge(source, target) means source -> target: the dependency
			// must complete before its dependent.
			err := dg.AddEdge(dep.Path(), a.Path())
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("failed to add edge %s -> %s: %w", dep.Path(), a.Path(), err)
			}
		}
		return nil
	}

	for _, root := range b.roots {
		if err := add(root); err != nil {
			return nil, err
		}
	}

	order, err := graph.StableTopologicalSort(dg, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("failed to compute build order: %w", err)
	}

	plan := make([]artifact.Artifact, len(order))
	for i, path := range order {
		plan[i] = byPath[path]
	}
	return plan, nil
}

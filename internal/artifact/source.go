package artifact

import "context"

// Source is a leaf node: a source file that must pre-exist on disk. The
// orchestrator never produces sources, only consumes them.
type Source struct {
	path string
}

// NewSource creates a source artifact for the given on-disk path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the source file's on-disk path.
func (s *Source) Path() string { return s.path }

// Dependencies returns nil: sources are leaves.
func (s *Source) Dependencies() []Artifact { return nil }

// Accept applies the visitor to the source directly; there are no
// dependencies to traverse first.
func (s *Source) Accept(ctx context.Context, v Visitor) error {
	return v.VisitSource(ctx, s)
}

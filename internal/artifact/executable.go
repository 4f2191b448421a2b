package artifact

import "context"

// Executable is a runnable binary linked from an arbitrary mix of raw
// sources and already-compiled objects.
type Executable struct {
	path string
	deps []Artifact
}

// NewExecutable creates an executable at path, linked from deps.
func NewExecutable(path string, deps ...Artifact) *Executable {
	owned := make([]Artifact, len(deps))
	copy(owned, deps)
	return &Executable{path: path, deps: owned}
}

// Path returns the executable's on-disk path.
func (e *Executable) Path() string { return e.path }

// Dependencies returns the executable's dependencies in declaration order.
func (e *Executable) Dependencies() []Artifact { return e.deps }

// Accept visits every dependency first, then the executable itself.
func (e *Executable) Accept(ctx context.Context, v Visitor) error {
	for _, dep := range e.deps {
		if err := dep.Accept(ctx, v); err != nil {
			return err
		}
	}
	return v.VisitExecutable(ctx, e)
}

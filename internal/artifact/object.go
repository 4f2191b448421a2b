package artifact

import "context"

// Object is a compiled object file produced from exactly one source.
type Object struct {
	path   string
	source *Source
}

// NewObject creates an object artifact at path, compiled from source.
func NewObject(path string, source *Source) *Object {
	return &Object{path: path, source: source}
}

// Path returns the object file's on-disk path.
func (o *Object) Path() string { return o.path }

// Source returns the single source this object is compiled from.
func (o *Object) Source() *Source { return o.source }

// Dependencies returns the object's single source.
func (o *Object) Dependencies() []Artifact {
	return []Artifact{o.source}
}

// Accept visits the source first, then the object itself.
func (o *Object) Accept(ctx context.Context, v Visitor) error {
	if err := o.source.Accept(ctx, v); err != nil {
		return err
	}
	return v.VisitObject(ctx, o)
}

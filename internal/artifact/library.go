package artifact

import "context"

// library carries the state shared by both library variants: a path and an
// ordered list of member objects. Order is preserved because archiving and
// linking are order-sensitive for some toolchains.
type library struct {
	path    string
	objects []*Object
}

func newLibrary(path string, objects []*Object) library {
	// Copy so later mutation of the caller's slice cannot reach the graph.
	owned := make([]*Object, len(objects))
	copy(owned, objects)
	return library{path: path, objects: owned}
}

// Path returns the library's on-disk path.
func (l *library) Path() string { return l.path }

// Objects returns the library's member objects in declaration order.
func (l *library) Objects() []*Object { return l.objects }

// Dependencies returns the member objects in declaration order.
func (l *library) Dependencies() []Artifact {
	deps := make([]Artifact, len(l.objects))
	for i, o := range l.objects {
		deps[i] = o
	}
	return deps
}

// acceptObjects visits every member object before the library itself.
func (l *library) acceptObjects(ctx context.Context, v Visitor) error {
	for _, o := range l.objects {
		if err := o.Accept(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// StaticLibrary is an archive of objects.
type StaticLibrary struct {
	library
}

// NewStaticLibrary creates a static library at path, archived from objects.
func NewStaticLibrary(path string, objects ...*Object) *StaticLibrary {
	return &StaticLibrary{library: newLibrary(path, objects)}
}

// Accept visits the member objects first, then the library itself.
func (l *StaticLibrary) Accept(ctx context.Context, v Visitor) error {
	if err := l.acceptObjects(ctx, v); err != nil {
		return err
	}
	return v.VisitStaticLibrary(ctx, l)
}

// SharedLibrary is a position-independent shared library linked from objects.
type SharedLibrary struct {
	library
}

// NewSharedLibrary creates a shared library at path, linked from objects.
func NewSharedLibrary(path string, objects ...*Object) *SharedLibrary {
	return &SharedLibrary{library: newLibrary(path, objects)}
}

// Accept visits the member objects first, then the library itself.
func (l *SharedLibrary) Accept(ctx context.Context, v Visitor) error {
	if err := l.acceptObjects(ctx, v); err != nil {
		return err
	}
	return v.VisitSharedLibrary(ctx, l)
}

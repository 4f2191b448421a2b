package graph

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arbor-build/arbor/internal/artifact"
	"github.com/arbor-build/arbor/internal/ctxlog"
	"github.com/arbor-build/arbor/internal/fsutil"
)

// lookupOrResolve returns the artifact memoized under name, resolving and
// caching it on first request. Every resolution path funnels through here;
// this is the single place the one-instance-per-name guarantee is enforced.
func (b *Builder) lookupOrResolve(name string, resolve func() (artifact.Artifact, error)) (artifact.Artifact, error) {
	if a, ok := b.artifacts[name]; ok {
		return a, nil
	}
	a, err := resolve()
	if err != nil {
		return nil, err
	}
	b.artifacts[name] = a
	return a, nil
}

// findSourcePath locates a source file by exact name under the primary
// source tree, falling back to the test tree only when the primary tree has
// no match at all. Zero matches fail with SourceNotFoundError, more than one
// with AmbiguousSourceError; the search never guesses.
func (b *Builder) findSourcePath(name string) (string, error) {
	matches, err := fsutil.FindFilesByName(b.layout.SourceDir, name)
	if err != nil {
		return "", fmt.Errorf("searching %s for %q: %w", b.layout.SourceDir, name, err)
	}
	if len(matches) == 0 {
		matches, err = fsutil.FindFilesByName(b.layout.TestDir, name)
		if err != nil {
			return "", fmt.Errorf("searching %s for %q: %w", b.layout.TestDir, name, err)
		}
		if len(matches) == 0 {
			return "", &SourceNotFoundError{Name: name}
		}
	}
	if len(matches) > 1 {
		return "", &AmbiguousSourceError{Name: name, Candidates: matches}
	}
	return matches[0], nil
}

// source resolves a source name to its on-disk file.
func (b *Builder) source(ctx context.Context, name string) (*artifact.Source, error) {
	a, err := b.lookupOrResolve(name, func() (artifact.Artifact, error) {
		path, err := b.findSourcePath(name)
		if err != nil {
			return nil, err
		}
		ctxlog.FromContext(ctx).Debug("Resolved source.", "name", name, "path", path)
		return artifact.NewSource(path), nil
	})
	if err != nil {
		return nil, err
	}
	return a.(*artifact.Source), nil
}

// object resolves an object name. The source name is derived by suffix
// substitution; the object path mirrors the source's path relative to its
// tree, re-rooted under the mode-specific object directory.
func (b *Builder) object(ctx context.Context, name string) (*artifact.Object, error) {
	a, err := b.lookupOrResolve(name, func() (artifact.Artifact, error) {
		srcName := strings.TrimSuffix(name, b.layout.ObjectSuffix) + b.layout.SourceSuffix
		src, err := b.source(ctx, srcName)
		if err != nil {
			return nil, err
		}
		objPath, err := b.objectPath(src.Path())
		if err != nil {
			return nil, err
		}
		ctxlog.FromContext(ctx).Debug("Resolved object.", "name", name, "path", objPath)
		return artifact.NewObject(objPath, src), nil
	})
	if err != nil {
		return nil, err
	}
	return a.(*artifact.Object), nil
}

// objectPath maps a source path to its object path. Sources found under the
// test tree keep the test tree as their relative root, so test objects do
// not collide with primary ones.
func (b *Builder) objectPath(srcPath string) (string, error) {
	rel, err := filepath.Rel(b.layout.SourceDir, srcPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel, err = filepath.Rel(b.layout.TestDir, srcPath)
		if err != nil {
			return "", fmt.Errorf("source %s is outside both source trees: %w", srcPath, err)
		}
	}
	rel = strings.TrimSuffix(rel, b.layout.SourceSuffix) + b.layout.ObjectSuffix
	return filepath.Join(b.layout.ObjectDir, rel), nil
}

// objects resolves a list of object names in order.
func (b *Builder) objects(ctx context.Context, names []string) ([]*artifact.Object, error) {
	objs := make([]*artifact.Object, 0, len(names))
	for _, n := range names {
		o, err := b.object(ctx, n)
		if err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, nil
}

// staticLibrary resolves a static library name under the binaries directory.
func (b *Builder) staticLibrary(ctx context.Context, name string, objectNames []string) (artifact.Artifact, error) {
	return b.lookupOrResolve(name, func() (artifact.Artifact, error) {
		objs, err := b.objects(ctx, objectNames)
		if err != nil {
			return nil, err
		}
		return artifact.NewStaticLibrary(filepath.Join(b.layout.BinDir, name), objs...), nil
	})
}

// sharedLibrary resolves a shared library name under the binaries directory.
func (b *Builder) sharedLibrary(ctx context.Context, name string, objectNames []string) (artifact.Artifact, error) {
	return b.lookupOrResolve(name, func() (artifact.Artifact, error) {
		objs, err := b.objects(ctx, objectNames)
		if err != nil {
			return nil, err
		}
		return artifact.NewSharedLibrary(filepath.Join(b.layout.BinDir, name), objs...), nil
	})
}

// executable resolves an executable name under the test binaries directory.
func (b *Builder) executable(ctx context.Context, name string, depNames []string) (artifact.Artifact, error) {
	return b.lookupOrResolve(name, func() (artifact.Artifact, error) {
		deps := make([]artifact.Artifact, 0, len(depNames))
		for _, depName := range depNames {
			var (
				dep artifact.Artifact
				err error
			)
			if strings.HasSuffix(depName, b.layout.SourceSuffix) {
				dep, err = b.source(ctx, depName)
			} else {
				dep, err = b.object(ctx, depName)
			}
			if err != nil {
				return nil, err
			}
			deps = append(deps, dep)
		}
		return artifact.NewExecutable(filepath.Join(b.layout.TestBinDir, name), deps...), nil
	})
}

package graph

import (
	"fmt"
	"strings"
)

// SourceNotFoundError reports a symbolic source name that matched no file
// under either the primary or the test source tree.
type SourceNotFoundError struct {
	Name string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("failed to find source file %q", e.Name)
}

// AmbiguousSourceError reports a symbolic source name that matched more than
// one file. Resolution is not allowed to guess, so the caller must rename or
// qualify the colliding files.
type AmbiguousSourceError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousSourceError) Error() string {
	return fmt.Sprintf("ambiguous source name %q: found %s",
		e.Name, strings.Join(e.Candidates, ", "))
}

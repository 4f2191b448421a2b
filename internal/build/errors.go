package build

import "fmt"

// MissingSourceError reports a source file that is absent from disk.
// Sources are never produced by the orchestrator, so this is fatal.
type MissingSourceError struct {
	Path string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("source is missing: %s", e.Path)
}

// ToolchainExitError reports an external toolchain command that returned a
// non-zero status. The status becomes the orchestrator's own exit code.
type ToolchainExitError struct {
	Command string
	Status  int
}

func (e *ToolchainExitError) Error() string {
	return fmt.Sprintf("command exited with status %d: %s", e.Status, e.Command)
}

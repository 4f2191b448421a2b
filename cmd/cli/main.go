package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arbor-build/arbor/internal/app"
	"github.com/arbor-build/arbor/internal/build"
	"github.com/arbor-build/arbor/internal/cli"
	"github.com/arbor-build/arbor/internal/graph"
)

// main is the entrypoint for the arbor build orchestrator.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run failure to the process exit status. A toolchain
// failure surfaces its own status as the exit code, so a wrapping script
// sees exactly what the compiler saw; name resolution failures exit 2 like
// other usage errors; anything else exits 1.
func exitCode(err error) int {
	var toolErr *build.ToolchainExitError
	if errors.As(err, &toolErr) && toolErr.Status > 0 {
		return toolErr.Status
	}
	var notFound *graph.SourceNotFoundError
	var ambiguous *graph.AmbiguousSourceError
	if errors.As(err, &notFound) || errors.As(err, &ambiguous) {
		return 2
	}
	return 1
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	arborApp := app.NewApp(outW, errW, appConfig)
	return arborApp.Run(context.Background())
}

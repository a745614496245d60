package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Resolution or lint succeeded
	ExitLintFailure = 1 // Lint reported warnings under --strict
	ExitError       = 2 // Input, configuration or runtime error
)

// LintFailureError reports that a definition was read and linted but
// produced warnings the caller asked to treat as failures.
type LintFailureError struct {
	Count int
}

func (e *LintFailureError) Error() string {
	return fmt.Sprintf("definition has %d warning(s)", e.Count)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var lintErr *LintFailureError
		if errors.As(err, &lintErr) {
			os.Exit(ExitLintFailure)
		}
		os.Exit(ExitError)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // A selection was produced
	ExitNoSolution = 1 // The solver reported that no solution exists
	ExitError      = 2 // Configuration, input, transport or response error
)

// NoSolutionError indicates that the run completed, but the solver found no
// feasible selection within the budget.
type NoSolutionError struct {
	Message string
}

func (e *NoSolutionError) Error() string {
	return e.Message
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var noSolution *NoSolutionError
	if errors.As(err, &noSolution) {
		return ExitNoSolution
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

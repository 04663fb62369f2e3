// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
)

const (
	// usageExitCode is returned for missing or malformed arguments.
	usageExitCode = 1
	// wrapperFailureExitCode is returned when nmapw fails before or instead
	// of the tool: not found, timeout, start failure, bad config.
	wrapperFailureExitCode = 255
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps the outcome of a run to the process exit status.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return wrapperFailureExitCode
}

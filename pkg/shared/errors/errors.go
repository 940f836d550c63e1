package errors

import (
	"errors"
	"fmt"
)

// Process exit codes returned by the CLI.
const (
	ExitCodeOK          = 0
	ExitCodeError       = 1
	ExitCodeScanFailure = 2
	ExitCodeFindings    = 3
)

// CommandError represents an error that occurred during command execution and carries the exit code to use.
type CommandError struct {
	ExitCode    int
	CommonError string
	err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap exposes the underlying error.
func (e *CommandError) Unwrap() error {
	return e.err
}

// NewCommandError creates a new CommandError instance wrapping err.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		err:         err,
	}
}

// NewCommandErrorf formats a message and wraps it into a CommandError.
func NewCommandErrorf(code int, format string, args ...interface{}) *CommandError {
	return NewCommandError(fmt.Errorf(format, args...), code)
}

// ExitCode returns the exit code carried by err, ExitCodeError for other errors and ExitCodeOK for nil.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return ExitCodeError
}

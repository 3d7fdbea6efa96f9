// SPDX-License-Identifier: MPL-2.0

package runtime

// Result is the outcome of running a program or script.
type Result struct {
	// ExitCode is the status the process or script exited with.
	ExitCode ExitCode
	// Error is set when the program could not be run at all, as opposed to
	// running and exiting non-zero.
	Error error
	// Output holds combined stdout and stderr with trailing line breaks
	// trimmed.
	Output string
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewExitCodeResult creates a Result with the given exit code and output.
func NewExitCodeResult(code ExitCode, output string) *Result {
	return &Result{ExitCode: code, Output: output}
}

// Success reports whether the run completed with exit code 0.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

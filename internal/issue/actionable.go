// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// ActionableError is a user-facing failure: the step that failed, the file
	// or entity it concerned, and what the user can do next.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load source cache").
	//		WithResource(".shafaCache/source.cache").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		Operation   string
		Resource    string
		Suggestions []string
		Cause       error
	}

	// ErrorContext accumulates the fields of an ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// hints are the default next steps for codes whose fix does not depend on
// the call site. An explicit suggestion replaces the hint.
var hints = map[Code]string{
	CodeManifestNotFound:       "Run shafa from the project root or pass --project-dir",
	CodeManifestParse:          "Fix the TOML syntax at the reported line and column",
	CodeMissingProjectName:     "Add ProjectName to config.toml",
	CodeMissingProjectVersion:  "Add ProjectVersion to config.toml",
	CodeMissingProjectLanguage: "Add ProjectLanguage to config.toml",
	CodeMissingProjectType:     "Add ProjectType to config.toml",
	CodeCacheRead:              "Run 'shafa configure' before 'shafa build'",
	CodeCacheParse:             "Run 'shafa configure' to rebuild the source cache",
	CodeNoInstallation:         "Install the Visual Studio C++ build tools",
	CodeUnsupportedToolchain:   "Run 'shafa compilers' to list implemented toolchains",
	CodeToolchainUnresolved:    "Run 'shafa configure' to locate the toolchain",
	CodeCompilerRunFailed:      "Fix the compiler diagnostics above and build again",
	CodeLinkerRunFailed:        "Check LinkerFlags for missing libraries",
}

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation attaches an operation to err. A nil err stays nil.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to ")
	sb.WriteString(e.Operation)
	if e.Resource != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Resource)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Code returns the first code in the cause chain, or 0.
func (e *ActionableError) Code() Code {
	return CodeOf(e.Cause)
}

// Hints returns the explicit suggestions, or the default hint for the
// cause's code when there are none.
func (e *ActionableError) Hints() []string {
	if len(e.Suggestions) > 0 {
		return slices.Clone(e.Suggestions)
	}
	if h, ok := hints[e.Code()]; ok {
		return []string{h}
	}
	return nil
}

// Format renders the error with its hints. Verbose output adds the code and
// the cause tree, descending into joined errors.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if h := e.Hints(); len(h) > 0 {
		sb.WriteString("\n")
		for _, s := range h {
			sb.WriteString("\n  • ")
			sb.WriteString(s)
		}
	}

	if !verbose || e.Cause == nil {
		return sb.String()
	}
	if code := e.Code(); code != 0 {
		fmt.Fprintf(&sb, "\n\nCode: %d %s (%s)", code, code, code.Concern())
	}
	sb.WriteString("\n\nError chain:")
	writeChain(&sb, e.Cause, 1)
	return sb.String()
}

func writeChain(sb *strings.Builder, err error, depth int) {
	for err != nil {
		fmt.Fprintf(sb, "\n%s- %s", strings.Repeat("  ", depth), err.Error())
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, child := range u.Unwrap() {
				writeChain(sb, child, depth+1)
			}
			return
		case interface{ Unwrap() error }:
			err = u.Unwrap()
			depth++
		default:
			return
		}
	}
}

// WithOperation sets the failed step, as a verb phrase ("bind manifest").
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the file or entity involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a next step for the user.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.suggestions = append(c.suggestions, s)
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil without an operation.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: slices.Clone(c.suggestions),
		Cause:       c.cause,
	}
}

// BuildError is Build typed as error, so a missing operation yields a nil
// interface rather than a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code partitions by concern: generic I/O 1-99, manifest 100-199,
// configure/cache/toolchain 200-299, build 300-399, hook scripts 400-499.
const (
	CodeCannotReadFile Code = iota + 1
	CodeCannotWriteFile
	CodeCannotOpenFile
	CodeDownloadFailed
	CodeRunCommandFailed
)

const (
	CodeManifestNotFound Code = iota + 101
	CodeManifestParse
	CodeMissingProjectName
	CodeMissingProjectVersion
	CodeMissingProjectLanguage
	CodeMissingProjectType
	CodeUnexpectedProjectType
)

const (
	CodeInvalidEnvironment Code = iota + 201
	CodeDirectoryIteration
	CodeHashCompute
	CodeCacheRead
	CodeCacheParse
	CodeCacheWrite
	CodeNoInstallation
	CodeInvalidToolsetVersion
	CodeCompilerNotFound
	CodeLibrarianNotFound
	CodeLinkerNotFound
	CodeUnsupportedToolchain
	CodeDiscoveryFailed
)

const (
	CodeCompilerRunFailed Code = iota + 301
	CodeLinkerRunFailed
	CodeNotImplemented
	CodeToolchainUnresolved
	CodeNoObjectFiles
	CodeOutputDirectory
)

const (
	CodeScriptUnreadable Code = iota + 401
	CodeScriptNotFound
	CodeScriptExecution
)

type (
	// Code is a numeric error code from the flat shafa error space.
	Code int32

	// Concern names the partition a Code belongs to.
	Concern string

	// Error pairs a Code with a contextual message and an optional cause.
	// Two Errors match under errors.Is when their codes are equal, so
	// callers can test with errors.Is(err, issue.Sentinel(code)).
	Error struct {
		Code    Code
		Message string
		Cause   error
	}
)

// Concern values.
const (
	ConcernIO        Concern = "io"
	ConcernManifest  Concern = "manifest"
	ConcernConfigure Concern = "configure"
	ConcernBuild     Concern = "build"
	ConcernScript    Concern = "script"
	ConcernUnknown   Concern = "unknown"
)

var codeNames = map[Code]string{
	CodeCannotReadFile:         "CannotReadFile",
	CodeCannotWriteFile:        "CannotWriteFile",
	CodeCannotOpenFile:         "CannotOpenFile",
	CodeDownloadFailed:         "DownloadFailed",
	CodeRunCommandFailed:       "RunCommandFailed",
	CodeManifestNotFound:       "ManifestNotFound",
	CodeManifestParse:          "ManifestParse",
	CodeMissingProjectName:     "MissingProjectName",
	CodeMissingProjectVersion:  "MissingProjectVersion",
	CodeMissingProjectLanguage: "MissingProjectLanguage",
	CodeMissingProjectType:     "MissingProjectType",
	CodeUnexpectedProjectType:  "UnexpectedProjectType",
	CodeInvalidEnvironment:     "InvalidEnvironment",
	CodeDirectoryIteration:     "DirectoryIteration",
	CodeHashCompute:            "HashCompute",
	CodeCacheRead:              "CacheRead",
	CodeCacheParse:             "CacheParse",
	CodeCacheWrite:             "CacheWrite",
	CodeNoInstallation:         "NoInstallation",
	CodeInvalidToolsetVersion:  "InvalidToolsetVersion",
	CodeCompilerNotFound:       "CompilerNotFound",
	CodeLibrarianNotFound:      "LibrarianNotFound",
	CodeLinkerNotFound:         "LinkerNotFound",
	CodeUnsupportedToolchain:   "UnsupportedToolchain",
	CodeDiscoveryFailed:        "DiscoveryFailed",
	CodeCompilerRunFailed:      "CompilerRunFailed",
	CodeLinkerRunFailed:        "LinkerRunFailed",
	CodeNotImplemented:         "NotImplemented",
	CodeToolchainUnresolved:    "ToolchainUnresolved",
	CodeNoObjectFiles:          "NoObjectFiles",
	CodeOutputDirectory:        "OutputDirectory",
	CodeScriptUnreadable:       "ScriptUnreadable",
	CodeScriptNotFound:         "ScriptNotFound",
	CodeScriptExecution:        "ScriptExecution",
}

// String returns the symbolic name of the code, or its number when unknown.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Concern reports which partition of the code space c belongs to.
func (c Code) Concern() Concern {
	switch {
	case c >= 1 && c < 100:
		return ConcernIO
	case c >= 100 && c < 200:
		return ConcernManifest
	case c >= 200 && c < 300:
		return ConcernConfigure
	case c >= 300 && c < 400:
		return ConcernBuild
	case c >= 400 && c < 500:
		return ConcernScript
	default:
		return ConcernUnknown
	}
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with a formatted message and an underlying cause.
// A nil cause yields the same result as New.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel returns a message-less Error usable as an errors.Is target.
func Sentinel(code Code) *Error {
	return &Error{Code: code}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(e.Code.String())
	}
	fmt.Fprintf(&sb, " (code %d)", e.Code)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or 0.
func CodeOf(err error) Code {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code
	}
	return 0
}

// HasCode reports whether err's chain contains an *Error with the given code.
func HasCode(err error, code Code) bool {
	return errors.Is(err, Sentinel(code))
}

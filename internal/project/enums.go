// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
)

const (
	// ProjectExecutable links a standalone program.
	ProjectExecutable ProjectType = "Executable"
	// ProjectStaticLibrary archives objects into a static library.
	ProjectStaticLibrary ProjectType = "StaticLibrary"
	// ProjectDynamicLibrary links a shared library.
	ProjectDynamicLibrary ProjectType = "DynamicLibrary"

	// CompilerUnknown resolves to the host default at build time.
	CompilerUnknown Compiler = "Unknown"
	// CompilerMSVC is the Microsoft Visual C++ toolchain.
	CompilerMSVC Compiler = "MSVC"
	// CompilerClang is the LLVM Clang toolchain.
	CompilerClang Compiler = "Clang"
	// CompilerGCC is the GNU Compiler Collection.
	CompilerGCC Compiler = "GCC"

	// TargetUnknown resolves to the host platform at build time.
	TargetUnknown Target = "Unknown"
	// TargetWindows builds for Windows.
	TargetWindows Target = "Windows"
	// TargetLinux builds for Linux.
	TargetLinux Target = "Linux"
)

var (
	// ErrInvalidProjectType is the sentinel wrapped by InvalidProjectTypeError.
	ErrInvalidProjectType = errors.New("invalid project type")
	// ErrInvalidCompiler is the sentinel wrapped by InvalidCompilerError.
	ErrInvalidCompiler = errors.New("invalid compiler")
	// ErrInvalidTarget is the sentinel wrapped by InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid target")
)

type (
	// ProjectType is the kind of artifact a project produces.
	ProjectType string

	// Compiler is a toolchain family.
	Compiler string

	// Target is a build target platform.
	Target string

	// InvalidProjectTypeError is returned when a ProjectType value is not recognized.
	InvalidProjectTypeError struct {
		Value ProjectType
	}

	// InvalidCompilerError is returned when a Compiler value is not recognized.
	InvalidCompilerError struct {
		Value string
	}

	// InvalidTargetError is returned when a Target value is not recognized.
	InvalidTargetError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidProjectTypeError) Error() string {
	return fmt.Sprintf("unexpected project type %q (valid: Executable, StaticLibrary, DynamicLibrary)", e.Value)
}

// Unwrap returns ErrInvalidProjectType.
func (e *InvalidProjectTypeError) Unwrap() error { return ErrInvalidProjectType }

// Error implements the error interface.
func (e *InvalidCompilerError) Error() string {
	return fmt.Sprintf("unknown compiler %q (valid: Unknown, MSVC, Clang, GCC)", e.Value)
}

// Unwrap returns ErrInvalidCompiler.
func (e *InvalidCompilerError) Unwrap() error { return ErrInvalidCompiler }

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("unknown target %q (valid: Unknown, Windows, Linux)", e.Value)
}

// Unwrap returns ErrInvalidTarget.
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }

// String returns the manifest spelling of the project type.
func (t ProjectType) String() string { return string(t) }

// Validate returns nil if t is one of the supported project types.
func (t ProjectType) Validate() error {
	switch t {
	case ProjectExecutable, ProjectStaticLibrary, ProjectDynamicLibrary:
		return nil
	default:
		return &InvalidProjectTypeError{Value: t}
	}
}

// String returns the manifest spelling of the compiler.
func (c Compiler) String() string {
	if c == "" {
		return string(CompilerUnknown)
	}
	return string(c)
}

// Implemented reports whether shafa can locate and drive this toolchain.
func (c Compiler) Implemented() bool { return c == CompilerMSVC }

// ParseCompiler maps a manifest value to a Compiler. Matching is exact.
// Unrecognized values return CompilerUnknown and an *InvalidCompilerError.
func ParseCompiler(s string) (Compiler, error) {
	switch c := Compiler(s); c {
	case CompilerUnknown, CompilerMSVC, CompilerClang, CompilerGCC:
		return c, nil
	default:
		return CompilerUnknown, &InvalidCompilerError{Value: s}
	}
}

// Compilers lists every known toolchain family.
func Compilers() []Compiler {
	return []Compiler{CompilerMSVC, CompilerClang, CompilerGCC}
}

// String returns the manifest spelling of the target.
func (t Target) String() string {
	if t == "" {
		return string(TargetUnknown)
	}
	return string(t)
}

// Implemented reports whether builds for this target are supported.
func (t Target) Implemented() bool { return t == TargetWindows }

// ParseTarget maps a manifest value to a Target. Matching is exact.
// Unrecognized values return TargetUnknown and an *InvalidTargetError.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetUnknown, TargetWindows, TargetLinux:
		return t, nil
	default:
		return TargetUnknown, &InvalidTargetError{Value: s}
	}
}

// Targets lists every known target platform.
func Targets() []Target {
	return []Target{TargetWindows, TargetLinux}
}

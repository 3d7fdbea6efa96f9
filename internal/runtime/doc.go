// SPDX-License-Identifier: MPL-2.0

// Package runtime runs the external programs and hook scripts a build needs.
//
// ExecRunner spawns toolchain executables and captures their combined output.
// ShellEngine interprets POSIX shell hook scripts in-process with mvdan/sh, so
// prebuild and postbuild hooks behave the same on every host without a system
// shell.
package runtime

// SPDX-License-Identifier: MPL-2.0

// Package toolchain locates the compiler, librarian and linker for a project.
//
// For picks a Locator by compiler family. The MSVC locator downloads vswhere
// into the project cache when it is missing, asks it for the latest Visual
// Studio installation with the x64 C++ tools, and resolves cl.exe, lib.exe
// and link.exe from the default toolset version. Other families are
// recognized but not implemented.
package toolchain

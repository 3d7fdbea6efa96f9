// SPDX-License-Identifier: MPL-2.0

package project

import "slices"

type (
	// ToolFlags are extra arguments passed to each tool of a toolchain.
	ToolFlags struct {
		Compiler  []string
		Librarian []string
		Linker    []string
	}

	// ToolchainPaths are absolute paths to the located tools. All fields are
	// empty until a locator succeeds.
	ToolchainPaths struct {
		CCompiler   string
		CXXCompiler string
		Librarian   string
		Linker      string
	}

	// Manifest is the typed project model bound from config.toml.
	Manifest struct {
		Name        string
		Version     string
		Language    string
		Type        ProjectType
		Compiler    Compiler
		Target      Target
		CStandard   string
		CppStandard string

		// Flags apply to every toolchain; the family-specific sets are
		// appended after them by FlagsFor.
		Flags      ToolFlags
		MSVCFlags  ToolFlags
		ClangFlags ToolFlags
		GCCFlags   ToolFlags

		// Prebuild and Postbuild are hook script paths; empty disables the hook.
		Prebuild  string
		Postbuild string

		Toolchain ToolchainPaths

		bindings BindingTable
	}
)

// NewManifest returns a Manifest with Unknown compiler and target, and
// builds its binding table.
func NewManifest() *Manifest {
	m := &Manifest{
		Compiler: CompilerUnknown,
		Target:   TargetUnknown,
	}
	m.bindings = newBindingTable(m)
	return m
}

// Bindings returns the key to field table for m.
func (m *Manifest) Bindings() BindingTable {
	if m.bindings == nil {
		m.bindings = newBindingTable(m)
	}
	return m.bindings
}

// FlagsFor returns the generic flags followed by the flags specific to c.
func (m *Manifest) FlagsFor(c Compiler) ToolFlags {
	var specific ToolFlags
	switch c {
	case CompilerMSVC:
		specific = m.MSVCFlags
	case CompilerClang:
		specific = m.ClangFlags
	case CompilerGCC:
		specific = m.GCCFlags
	}
	return ToolFlags{
		Compiler:  slices.Concat(m.Flags.Compiler, specific.Compiler),
		Librarian: slices.Concat(m.Flags.Librarian, specific.Librarian),
		Linker:    slices.Concat(m.Flags.Linker, specific.Linker),
	}
}

// EffectiveCompiler resolves an Unknown compiler to the default for goos.
// Windows hosts default to MSVC; other hosts have no default.
func (m *Manifest) EffectiveCompiler(goos string) Compiler {
	if m.Compiler != "" && m.Compiler != CompilerUnknown {
		return m.Compiler
	}
	if goos == "windows" {
		return CompilerMSVC
	}
	return CompilerUnknown
}

// EffectiveTarget resolves an Unknown target to the platform of goos.
func (m *Manifest) EffectiveTarget(goos string) Target {
	if m.Target != "" && m.Target != TargetUnknown {
		return m.Target
	}
	switch goos {
	case "windows":
		return TargetWindows
	case "linux":
		return TargetLinux
	default:
		return TargetUnknown
	}
}

// HasToolchain reports whether a locator has filled every tool path.
func (m *Manifest) HasToolchain() bool {
	t := m.Toolchain
	return t.CCompiler != "" && t.CXXCompiler != "" && t.Librarian != "" && t.Linker != ""
}

// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"slices"
	"testing"
)

func TestManifest_FlagsFor(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	m.Flags = ToolFlags{Compiler: []string{"/W4"}, Linker: []string{"/DEBUG"}}
	m.MSVCFlags = ToolFlags{Compiler: []string{"/EHsc"}, Librarian: []string{"/LTCG"}}
	m.GCCFlags = ToolFlags{Compiler: []string{"-Wall"}}

	tests := []struct {
		compiler Compiler
		want     ToolFlags
	}{
		{CompilerMSVC, ToolFlags{Compiler: []string{"/W4", "/EHsc"}, Librarian: []string{"/LTCG"}, Linker: []string{"/DEBUG"}}},
		{CompilerGCC, ToolFlags{Compiler: []string{"/W4", "-Wall"}, Linker: []string{"/DEBUG"}}},
		{CompilerUnknown, ToolFlags{Compiler: []string{"/W4"}, Linker: []string{"/DEBUG"}}},
	}

	for _, tt := range tests {
		got := m.FlagsFor(tt.compiler)
		if !slices.Equal(got.Compiler, tt.want.Compiler) ||
			!slices.Equal(got.Librarian, tt.want.Librarian) ||
			!slices.Equal(got.Linker, tt.want.Linker) {
			t.Errorf("FlagsFor(%s) = %+v, want %+v", tt.compiler, got, tt.want)
		}
	}

	// FlagsFor must not alias the manifest's slices.
	got := m.FlagsFor(CompilerMSVC)
	got.Compiler[0] = "changed"
	if m.Flags.Compiler[0] != "/W4" {
		t.Error("FlagsFor() result aliases Manifest.Flags")
	}
}

func TestManifest_EffectiveCompilerAndTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		compiler     Compiler
		target       Target
		goos         string
		wantCompiler Compiler
		wantTarget   Target
	}{
		{"unknown on windows", CompilerUnknown, TargetUnknown, "windows", CompilerMSVC, TargetWindows},
		{"unknown on linux", CompilerUnknown, TargetUnknown, "linux", CompilerUnknown, TargetLinux},
		{"unknown on darwin", CompilerUnknown, TargetUnknown, "darwin", CompilerUnknown, TargetUnknown},
		{"explicit wins", CompilerClang, TargetLinux, "windows", CompilerClang, TargetLinux},
		{"zero value", "", "", "windows", CompilerMSVC, TargetWindows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewManifest()
			m.Compiler = tt.compiler
			m.Target = tt.target
			if got := m.EffectiveCompiler(tt.goos); got != tt.wantCompiler {
				t.Errorf("EffectiveCompiler(%q) = %s, want %s", tt.goos, got, tt.wantCompiler)
			}
			if got := m.EffectiveTarget(tt.goos); got != tt.wantTarget {
				t.Errorf("EffectiveTarget(%q) = %s, want %s", tt.goos, got, tt.wantTarget)
			}
		})
	}
}

func TestBindingTable_Keys(t *testing.T) {
	t.Parallel()

	table := NewManifest().Bindings()
	want := []string{
		"CStandard", "ClangCompilerFlags", "ClangLibrarianFlags", "ClangLinkerFlags",
		"Compiler", "CompilerFlags", "CppStandard",
		"GccCompilerFlags", "GccLibrarianFlags", "GccLinkerFlags",
		"LibrarianFlags", "LinkerFlags",
		"MsvcCompilerFlags", "MsvcLibrarianFlags", "MsvcLinkerFlags",
		"Postbuild", "Prebuild",
		"ProjectLanguage", "ProjectName", "ProjectType", "ProjectVersion",
		"Target",
	}
	if got := table.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v\nwant %v", got, want)
	}
}

func TestBinding_SetWritesField(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	table := m.Bindings()

	mustSet := func(key string, v any) {
		t.Helper()
		b, ok := table.Lookup(key)
		if !ok {
			t.Fatalf("Lookup(%q) not found", key)
		}
		if err := b.Set(v); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	mustSet(KeyProjectName, "hello")
	mustSet(KeyProjectType, "Executable")
	mustSet(KeyCompiler, "MSVC")
	mustSet(KeyTarget, "Windows")
	mustSet("MsvcLinkerFlags", []string{"/DEBUG"})

	if m.Name != "hello" || m.Type != ProjectExecutable || m.Compiler != CompilerMSVC || m.Target != TargetWindows {
		t.Errorf("manifest = %+v", m)
	}
	if !slices.Equal(m.MSVCFlags.Linker, []string{"/DEBUG"}) {
		t.Errorf("MSVCFlags.Linker = %v", m.MSVCFlags.Linker)
	}
	if got := table[KeyProjectName].Get(); got != "hello" {
		t.Errorf("Get() = %v, want hello", got)
	}
}

func TestBinding_SetErrors(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	table := m.Bindings()

	if err := table[KeyProjectName].Set(42); !errors.Is(err, ErrWrongKind) {
		t.Errorf("Set(42) error = %v, want ErrWrongKind", err)
	}
	if err := table["CompilerFlags"].Set("not a list"); !errors.Is(err, ErrWrongKind) {
		t.Errorf("Set(string) on list error = %v, want ErrWrongKind", err)
	}

	err := table[KeyProjectType].Set("Foo")
	if !errors.Is(err, ErrInvalidProjectType) {
		t.Errorf("Set(Foo) error = %v, want ErrInvalidProjectType", err)
	}
	if m.Type != "" {
		t.Errorf("invalid project type must not be stored, got %q", m.Type)
	}

	m.Compiler = CompilerMSVC
	if err := table[KeyCompiler].Set("Borland"); !errors.Is(err, ErrInvalidCompiler) {
		t.Errorf("Set(Borland) error = %v, want ErrInvalidCompiler", err)
	}
	if m.Compiler != CompilerUnknown {
		t.Errorf("unrecognized compiler should bind Unknown, got %q", m.Compiler)
	}

	if err := table[KeyTarget].Set("Amiga"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Set(Amiga) error = %v, want ErrInvalidTarget", err)
	}
	if m.Target != TargetUnknown {
		t.Errorf("unrecognized target should bind Unknown, got %q", m.Target)
	}
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	env, err := NewEnvironment(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a, b := NewSession(env), NewSession(env)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("session IDs must be unique and non-empty: %q %q", a.ID, b.ID)
	}
	if a.Manifest == nil || a.Manifest.Compiler != CompilerUnknown {
		t.Errorf("NewSession() manifest = %+v", a.Manifest)
	}
	if a.Manifest.HasToolchain() {
		t.Error("fresh manifest must not report a toolchain")
	}
}

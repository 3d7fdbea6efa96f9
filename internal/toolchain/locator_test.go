// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/project"
	"github.com/neoshafa/shafa/internal/runtime"
	"github.com/neoshafa/shafa/internal/testutil"
)

type (
	fakeRunner struct {
		result *runtime.Result
		calls  []runtime.Command
	}

	fakeFetcher struct {
		err   error
		calls []string
	}
)

func (r *fakeRunner) Run(_ context.Context, cmd runtime.Command) *runtime.Result {
	r.calls = append(r.calls, cmd)
	return r.result
}

func (f *fakeFetcher) Fetch(_ context.Context, url, dest string) error {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, []byte("vswhere"), 0o755)
}

func newSession(t *testing.T) *project.Session {
	t.Helper()
	env, err := project.NewEnvironment(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testutil.MustMkdirAll(t, env.CacheBinDir())
	return project.NewSession(env)
}

// fakeInstall creates a Visual Studio layout and returns its root. tools
// lists which of cl.exe, lib.exe and link.exe exist.
func fakeInstall(t *testing.T, version string, tools ...string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"VC/Auxiliary/Build/Microsoft.VCToolsVersion.default.txt": version + "\n",
	}
	for _, tool := range tools {
		files["VC/Tools/MSVC/14.40.33807/bin/HostX64/x64/"+tool] = "binary"
	}
	testutil.WriteFiles(t, root, files)
	return root
}

func TestFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		compiler    project.Compiler
		unsupported bool
	}{
		{project.CompilerMSVC, false},
		{project.CompilerClang, true},
		{project.CompilerGCC, true},
		{project.CompilerUnknown, true},
	}

	for _, tt := range tests {
		l := For(tt.compiler, Deps{})
		if l.Compiler() != tt.compiler {
			t.Errorf("For(%s).Compiler() = %s", tt.compiler, l.Compiler())
		}
		if !tt.unsupported {
			continue
		}
		if err := l.Locate(t.Context(), newSession(t)); !issue.HasCode(err, issue.CodeUnsupportedToolchain) {
			t.Errorf("For(%s).Locate() error = %v, want UnsupportedToolchain", tt.compiler, err)
		}
	}
}

func TestMSVCLocate_Success(t *testing.T) {
	t.Parallel()

	install := fakeInstall(t, "14.40.33807", "cl.exe", "lib.exe", "link.exe")
	runner := &fakeRunner{result: runtime.NewExitCodeResult(0, install+"\r\n")}
	fetcher := &fakeFetcher{}
	session := newSession(t)

	err := For(project.CompilerMSVC, Deps{Runner: runner, Fetcher: fetcher}).Locate(t.Context(), session)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}

	if len(fetcher.calls) != 1 {
		t.Errorf("Fetch calls = %d, want 1 when vswhere is missing", len(fetcher.calls))
	}
	if len(runner.calls) != 1 || runner.calls[0].Path != session.Env.DiscoveryToolPath() {
		t.Fatalf("runner calls = %+v", runner.calls)
	}
	if !slices.Equal(runner.calls[0].Args, vswhereArgs) {
		t.Errorf("vswhere args = %v", runner.calls[0].Args)
	}

	tools := filepath.Join(install, "VC", "Tools", "MSVC", "14.40.33807", "bin", "HostX64", "x64")
	want := project.ToolchainPaths{
		CCompiler:   filepath.Join(tools, "cl.exe"),
		CXXCompiler: filepath.Join(tools, "cl.exe"),
		Librarian:   filepath.Join(tools, "lib.exe"),
		Linker:      filepath.Join(tools, "link.exe"),
	}
	if session.Manifest.Toolchain != want {
		t.Errorf("Toolchain = %+v, want %+v", session.Manifest.Toolchain, want)
	}
}

func TestMSVCLocate_NonZeroExitWithInstallation(t *testing.T) {
	t.Parallel()

	install := fakeInstall(t, "14.40.33807", "cl.exe", "lib.exe", "link.exe")
	runner := &fakeRunner{result: runtime.NewExitCodeResult(87, install)}
	session := newSession(t)

	err := For(project.CompilerMSVC, Deps{Runner: runner, Fetcher: &fakeFetcher{}}).Locate(t.Context(), session)
	if err != nil {
		t.Fatalf("Locate() error = %v, want success despite exit code 87", err)
	}

	tools := filepath.Join(install, "VC", "Tools", "MSVC", "14.40.33807", "bin", "HostX64", "x64")
	want := project.ToolchainPaths{
		CCompiler:   filepath.Join(tools, "cl.exe"),
		CXXCompiler: filepath.Join(tools, "cl.exe"),
		Librarian:   filepath.Join(tools, "lib.exe"),
		Linker:      filepath.Join(tools, "link.exe"),
	}
	if session.Manifest.Toolchain != want {
		t.Errorf("Toolchain = %+v, want %+v", session.Manifest.Toolchain, want)
	}
}

func TestMSVCLocate_SkipsFetchWhenToolPresent(t *testing.T) {
	t.Parallel()

	session := newSession(t)
	if err := os.WriteFile(session.Env.DiscoveryToolPath(), []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}
	fetcher := &fakeFetcher{}
	runner := &fakeRunner{result: runtime.NewExitCodeResult(0, "")}

	_ = For(project.CompilerMSVC, Deps{Runner: runner, Fetcher: fetcher}).Locate(t.Context(), session)
	if len(fetcher.calls) != 0 {
		t.Errorf("Fetch called %d times, want 0", len(fetcher.calls))
	}
}

func TestMSVCLocate_Failures(t *testing.T) {
	t.Parallel()

	full := []string{"cl.exe", "lib.exe", "link.exe"}
	tests := []struct {
		name     string
		result   func(t *testing.T) *runtime.Result
		wantCode issue.Code
	}{
		{
			name:     "empty discovery output",
			result:   func(*testing.T) *runtime.Result { return runtime.NewExitCodeResult(0, "  \r\n") },
			wantCode: issue.CodeNoInstallation,
		},
		{
			name:     "empty output with non-zero exit",
			result:   func(*testing.T) *runtime.Result { return runtime.NewExitCodeResult(87, "") },
			wantCode: issue.CodeNoInstallation,
		},
		{
			name: "discovery tool cannot run",
			result: func(*testing.T) *runtime.Result {
				return runtime.NewErrorResult(1, issue.New(issue.CodeRunCommandFailed, "executable not found"))
			},
			wantCode: issue.CodeRunCommandFailed,
		},
		{
			name: "empty toolset version",
			result: func(t *testing.T) *runtime.Result {
				return runtime.NewExitCodeResult(0, fakeInstall(t, "  ", full...))
			},
			wantCode: issue.CodeInvalidToolsetVersion,
		},
		{
			name: "missing toolset version file",
			result: func(t *testing.T) *runtime.Result {
				return runtime.NewExitCodeResult(0, t.TempDir())
			},
			wantCode: issue.CodeInvalidToolsetVersion,
		},
		{
			name: "missing cl.exe",
			result: func(t *testing.T) *runtime.Result {
				return runtime.NewExitCodeResult(0, fakeInstall(t, "14.40.33807", "lib.exe", "link.exe"))
			},
			wantCode: issue.CodeCompilerNotFound,
		},
		{
			name: "missing lib.exe",
			result: func(t *testing.T) *runtime.Result {
				return runtime.NewExitCodeResult(0, fakeInstall(t, "14.40.33807", "cl.exe", "link.exe"))
			},
			wantCode: issue.CodeLibrarianNotFound,
		},
		{
			name: "missing link.exe",
			result: func(t *testing.T) *runtime.Result {
				return runtime.NewExitCodeResult(0, fakeInstall(t, "14.40.33807", "cl.exe", "lib.exe"))
			},
			wantCode: issue.CodeLinkerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			session := newSession(t)
			runner := &fakeRunner{result: tt.result(t)}
			fetcher := &fakeFetcher{err: errors.New("offline")}

			err := For(project.CompilerMSVC, Deps{Runner: runner, Fetcher: fetcher}).Locate(t.Context(), session)
			if !issue.HasCode(err, tt.wantCode) {
				t.Fatalf("Locate() error = %v, want %s", err, tt.wantCode)
			}
			if session.Manifest.Toolchain != (project.ToolchainPaths{}) {
				t.Errorf("Toolchain written on failure: %+v", session.Manifest.Toolchain)
			}
		})
	}
}

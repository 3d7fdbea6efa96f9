// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/neoshafa/shafa/internal/issue"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestShellEngine_RunFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "pre.sh", `echo "$SHAFA_HOOK $SHAFA_PROJECT_NAME"
echo generated > out.txt
`)

	res := NewShellEngine(nil).RunFile(t.Context(), Script{
		Path: "pre.sh",
		Hook: HookPrebuild,
		Dir:  dir,
		Env:  map[string]string{EnvProjectName: "hello"},
	})
	if !res.Success() {
		t.Fatalf("RunFile() = %+v", res)
	}
	if res.Output != "prebuild hello" {
		t.Errorf("Output = %q, want %q", res.Output, "prebuild hello")
	}
	if _, err := os.Stat(filepath.Join(dir, "out.txt")); err != nil {
		t.Errorf("script should run in Dir: %v", err)
	}
}

func TestShellEngine_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "fail.sh", "echo boom\nexit 3\n")
	writeScript(t, dir, "broken.sh", "if then fi (\n")

	tests := []struct {
		name     string
		path     string
		wantCode issue.Code
		wantExit ExitCode
	}{
		{"empty path", "", issue.CodeScriptUnreadable, 1},
		{"missing", "nope.sh", issue.CodeScriptNotFound, 1},
		{"parse error", "broken.sh", issue.CodeScriptExecution, 1},
		{"non-zero exit", "fail.sh", issue.CodeScriptExecution, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := NewShellEngine(nil).RunFile(t.Context(), Script{Path: tt.path, Hook: HookPostbuild, Dir: dir})
			if !issue.HasCode(res.Error, tt.wantCode) {
				t.Errorf("RunFile() error = %v, want %s", res.Error, tt.wantCode)
			}
			if res.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantExit)
			}
		})
	}
}

func TestShellEngine_UnreadableScript(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("directory read semantics differ on Windows")
	}
	dir := t.TempDir()
	sub := filepath.Join(dir, "hook.sh")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	res := NewShellEngine(nil).RunFile(t.Context(), Script{Path: sub, Hook: HookPrebuild})
	if !issue.HasCode(res.Error, issue.CodeScriptUnreadable) {
		t.Errorf("RunFile(dir) error = %v, want ScriptUnreadable", res.Error)
	}
	if !strings.Contains(res.Error.Error(), "prebuild") {
		t.Errorf("error should name the hook: %v", res.Error)
	}
}

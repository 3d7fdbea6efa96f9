// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"path/filepath"
	"testing"

	"github.com/neoshafa/shafa/internal/issue"
)

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeScript(t, dir, ".env", `# hook settings
GREETING=hello
export TARGET_ARCH=x64
SHAFA_PROJECT_NAME=overridden
QUOTED="a b"
`)

	env := map[string]string{EnvProjectName: "hello"}
	if err := LoadEnvFile(env, path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	want := map[string]string{
		"GREETING":     "hello",
		"TARGET_ARCH":  "x64",
		"QUOTED":       "a b",
		EnvProjectName: "hello",
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, env[k], v)
		}
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	t.Parallel()

	env := map[string]string{}
	if err := LoadEnvFile(env, filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
	if len(env) != 0 {
		t.Errorf("env = %v, want empty", env)
	}
}

func TestShellEngine_EnvFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "pre.sh", `echo "$GREETING $SHAFA_PROJECT_NAME"`)
	envFile := writeScript(t, dir, ".env", "GREETING=hi\nSHAFA_PROJECT_NAME=ignored\n")

	res := NewShellEngine(nil).RunFile(t.Context(), Script{
		Path:    "pre.sh",
		Hook:    HookPrebuild,
		Dir:     dir,
		Env:     map[string]string{EnvProjectName: "hello"},
		EnvFile: envFile,
	})
	if !res.Success() {
		t.Fatalf("RunFile() = %+v", res)
	}
	if res.Output != "hi hello" {
		t.Errorf("Output = %q, want %q", res.Output, "hi hello")
	}
}

func TestShellEngine_EnvFileParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "pre.sh", "echo ok\n")
	envFile := writeScript(t, dir, ".env", "BROKEN='unterminated\n")

	res := NewShellEngine(nil).RunFile(t.Context(), Script{Path: "pre.sh", Hook: HookPrebuild, Dir: dir, EnvFile: envFile})
	if !issue.HasCode(res.Error, issue.CodeScriptUnreadable) {
		t.Errorf("RunFile() error = %v, want ScriptUnreadable", res.Error)
	}
}

func TestShellEngine_EnvFileCannotOverrideHook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "pre.sh", `echo "$SHAFA_HOOK"`)
	envFile := writeScript(t, dir, ".env", "SHAFA_HOOK=postbuild\n")

	res := NewShellEngine(nil).RunFile(t.Context(), Script{Path: "pre.sh", Hook: HookPrebuild, Dir: dir, EnvFile: envFile})
	if !res.Success() {
		t.Fatalf("RunFile() = %+v", res)
	}
	if res.Output != string(HookPrebuild) {
		t.Errorf("SHAFA_HOOK = %q, want %q", res.Output, HookPrebuild)
	}
}

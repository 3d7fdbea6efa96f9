// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewProject(t *testing.T) {
	t.Parallel()

	root := NewProject(t, MinimalManifest, map[string]string{"src/main.cpp": "int main() {}"})

	for _, rel := range []string{"config.toml", filepath.Join("src", "main.cpp")} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("expected %s: %v", rel, err)
		}
	}
}

func TestMustSetenv_Restores(t *testing.T) {
	const key = "SHAFA_TESTUTIL_PROBE"
	restore := MustUnsetenv(t, key)
	defer restore()

	cleanup := MustSetenv(t, key, "1")
	if os.Getenv(key) != "1" {
		t.Fatalf("MustSetenv did not set %s", key)
	}
	cleanup()
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s should be unset after cleanup", key)
	}
}

// SPDX-License-Identifier: MPL-2.0

package sourcecache

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/project"
	"github.com/neoshafa/shafa/internal/testutil"
)

func newCache(t *testing.T, files map[string]string) (*Cache, string) {
	t.Helper()
	root := testutil.NewProject(t, testutil.MinimalManifest, files)
	env, err := project.NewEnvironment(root)
	if err != nil {
		t.Fatal(err)
	}
	testutil.MustMkdirAll(t, env.CacheDir())
	return New(env, nil), root
}

func TestScan_TrackedFilesInLexicalOrder(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, map[string]string{
		"src/main.cpp":          "int main() {}",
		"src/util.hpp":          "#pragma once",
		"src/impl.inl":          "",
		"lib/a.c":               "void a(void) {}",
		"README.md":             "docs",
		"bin/obj/main.obj":      "object",
		"bin/old.cpp":           "ignored output dir",
		".shafaCache/stale.cpp": "ignored cache dir",
		".git/hooks/x.cpp":      "ignored vcs dir",
	})

	entries, err := c.Scan(t.Context())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{"config.toml", "lib/a.c", "src/impl.inl", "src/main.cpp", "src/util.hpp"}
	if got := Paths(entries); !slices.Equal(got, want) {
		t.Errorf("Scan() paths = %v, want %v", got, want)
	}
}

func TestScan_HashChangesWithContent(t *testing.T) {
	t.Parallel()

	c, root := newCache(t, map[string]string{"main.cpp": "int main() { return 0; }"})
	first, err := c.Scan(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	testutil.WriteFiles(t, root, map[string]string{"main.cpp": "int main() { return 1; }"})
	second, err := c.Scan(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	diff := Diff(second, first)
	if got := Paths(diff); !slices.Equal(got, []string{"main.cpp"}) {
		t.Errorf("Diff() = %v, want [main.cpp]", got)
	}
}

func TestScan_CanceledContext(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, map[string]string{"main.cpp": ""})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if entries, err := c.Scan(ctx); err == nil || entries != nil {
		t.Errorf("Scan() = %v, %v; want nil entries and an error", entries, err)
	}
}

func TestCommitLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, nil)
	entries := []Entry{
		{Hash: 18446744073709551615, Path: "src/main.cpp"},
		{Hash: 0, Path: "a@b/odd name.cpp"},
		{Hash: 42, Path: "config.toml"},
	}

	if err := c.Commit(entries); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(got, entries) {
		t.Errorf("Load() = %v, want %v", got, entries)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(c.Path()), "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestCommit_RejectsNewlineInPath(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, nil)
	err := c.Commit([]Entry{{Hash: 1, Path: "bad\nname.cpp"}})
	if !issue.HasCode(err, issue.CodeCacheWrite) {
		t.Errorf("Commit() error = %v, want CacheWrite", err)
	}
}

func TestReset_WritesEmptyCache(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, nil)
	if err := c.Commit([]Entry{{Hash: 1, Path: "a.cpp"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	entries, err := c.Load()
	if err != nil || len(entries) != 0 {
		t.Errorf("Load() after Reset = %v, %v", entries, err)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  *string
		wantCode issue.Code
		wantLine string
	}{
		{name: "missing file", content: nil, wantCode: issue.CodeCacheRead},
		{name: "no delimiter", content: ptr("1@a.cpp\n12345\n"), wantCode: issue.CodeCacheParse, wantLine: ":2:"},
		{name: "bad hash", content: ptr("abc@a.cpp\n"), wantCode: issue.CodeCacheParse, wantLine: ":1:"},
		{name: "empty path", content: ptr("12@\n"), wantCode: issue.CodeCacheParse, wantLine: ":1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newCache(t, nil)
			if tt.content != nil {
				if err := os.WriteFile(c.Path(), []byte(*tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := c.Load()
			if !issue.HasCode(err, tt.wantCode) {
				t.Fatalf("Load() error = %v, want %s", err, tt.wantCode)
			}
			if tt.wantLine != "" && !strings.Contains(err.Error(), tt.wantLine) {
				t.Errorf("error %q should name line %s", err, tt.wantLine)
			}
		})
	}
}

func TestBuildCommitIsIdempotent(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, map[string]string{"a.cpp": "a", "b.cpp": "b", "c.hpp": "c"})
	scanned, err := c.Scan(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Commit(scanned); err != nil {
		t.Fatal(err)
	}

	rescanned, err := c.Scan(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	persisted, err := c.Load()
	if err != nil {
		t.Fatal(err)
	}
	if diff := Diff(rescanned, persisted); len(diff) != 0 {
		t.Errorf("Diff() after commit = %v, want empty", diff)
	}
}

func ptr(s string) *string { return &s }

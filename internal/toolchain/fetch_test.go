// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/neoshafa/shafa/internal/issue"
)

func TestDiscoveryURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		version  string
		want     string
		wantErr  bool
	}{
		{
			name:    "default template",
			version: DefaultDiscoveryVersion,
			want:    "https://github.com/microsoft/vswhere/releases/download/3.1.7/vswhere.exe",
		},
		{
			name:     "custom mirror",
			template: "https://mirror.example/vswhere/{version}/vswhere.exe",
			version:  "2.8.4",
			want:     "https://mirror.example/vswhere/2.8.4/vswhere.exe",
		},
		{name: "leading v rejected", version: "v3.1.7", wantErr: true},
		{name: "garbage rejected", version: "latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DiscoveryURL(tt.template, tt.version)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DiscoveryURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DiscoveryURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "shafa-test" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("MZ fake binary"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cache", "bin", "vswhere.exe")
	f := NewHTTPFetcher(WithHTTPClient(srv.Client()), WithUserAgent("shafa-test"))
	if err := f.Fetch(t.Context(), srv.URL+"/vswhere.exe", dest); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "MZ fake binary" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestHTTPFetcher_FailureLeavesNoFiles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "vswhere.exe")
	err := NewHTTPFetcher(WithHTTPClient(srv.Client())).Fetch(t.Context(), srv.URL+"/missing", dest)
	if !issue.HasCode(err, issue.CodeDownloadFailed) {
		t.Fatalf("Fetch() error = %v, want DownloadFailed", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory should be empty after failed download, found %d entries", len(entries))
	}
}

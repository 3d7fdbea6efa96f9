// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/neoshafa/shafa/internal/issue"
)

const (
	// DefaultDiscoveryVersion is the vswhere release downloaded by default.
	DefaultDiscoveryVersion = "3.1.7"
	// DefaultDiscoveryURLTemplate is the vswhere download location; {version}
	// is replaced with the release version.
	DefaultDiscoveryURLTemplate = "https://github.com/microsoft/vswhere/releases/download/{version}/vswhere.exe"

	defaultUserAgent = "shafa"
)

type (
	// Fetcher downloads a remote file to a local path.
	Fetcher interface {
		Fetch(ctx context.Context, url, dest string) error
	}

	// HTTPFetcher is a Fetcher backed by net/http.
	HTTPFetcher struct {
		httpClient *http.Client
		userAgent  string
	}

	// FetcherOption configures an HTTPFetcher during construction.
	FetcherOption func(*HTTPFetcher)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// NewHTTPFetcher creates an HTTPFetcher using http.DefaultClient.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DiscoveryURL expands template with version. The version must be a valid
// semantic version without the leading "v".
func DiscoveryURL(template, version string) (string, error) {
	if !semver.IsValid("v" + version) {
		return "", issue.New(issue.CodeDiscoveryFailed, "invalid vswhere version %q", version)
	}
	if template == "" {
		template = DefaultDiscoveryURLTemplate
	}
	return strings.ReplaceAll(template, "{version}", version), nil
}

// Fetch downloads url into dest. The body is written to a temporary file in
// the destination directory and renamed into place, so dest is never left
// partially written.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return issue.Wrap(issue.CodeDownloadFailed, err, "cannot create %s", dir)
	}

	tmp, err := f.downloadToTempFile(ctx, url, dir)
	if err != nil {
		return issue.Wrap(issue.CodeDownloadFailed, err, "cannot download %s", url)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return issue.Wrap(issue.CodeDownloadFailed, err, "cannot move download to %s", dest)
	}
	return nil
}

func (f *HTTPFetcher) downloadToTempFile(ctx context.Context, url, dir string) (_ string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, "shafa-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return "", fmt.Errorf("writing to temp file: %w", err)
	}
	return tmp.Name(), nil
}

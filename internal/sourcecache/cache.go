// SPDX-License-Identifier: MPL-2.0

package sourcecache

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
	"github.com/neoshafa/shafa/internal/project"
)

// vcsDirs are never descended into by Scan.
var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

// Cache is the source cache of one project.
type Cache struct {
	root     string
	cacheDir string
	binDir   string
	file     string
	logger   *log.Logger
}

// New returns the cache for env. A nil logger discards output.
func New(env *project.Environment, logger *log.Logger) *Cache {
	return &Cache{
		root:     env.Root(),
		cacheDir: env.CacheDir(),
		binDir:   env.BinDir(),
		file:     env.SourceCachePath(),
		logger:   logging.OrDiscard(logger),
	}
}

// Path returns the cache file location.
func (c *Cache) Path() string { return c.file }

// Scan walks the project root in lexical order and hashes every tracked
// regular file. The cache and output directories and VCS metadata are
// skipped. Any failure aborts the scan without partial results.
func (c *Cache) Scan(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(c.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return issue.Wrap(issue.CodeDirectoryIteration, walkErr, "cannot iterate %s", p)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p == c.cacheDir || p == c.binDir || vcsDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsTracked(p) {
			return nil
		}
		sum, err := hashFile(p)
		if err != nil {
			return issue.Wrap(issue.CodeHashCompute, err, "cannot hash %s", p)
		}
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return issue.Wrap(issue.CodeDirectoryIteration, err, "cannot relativize %s", p)
		}
		entries = append(entries, Entry{Hash: sum, Path: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("scanned sources", "root", c.root, "files", len(entries))
	return entries, nil
}

// Load reads the persisted entries.
func (c *Cache) Load() ([]Entry, error) {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return nil, issue.Wrap(issue.CodeCacheRead, err, "cannot read source cache %s", c.file)
	}
	return parse(c.file, data)
}

// Commit replaces the cache file with entries. The file is written to a
// temporary file in the cache directory and renamed into place.
func (c *Cache) Commit(entries []Entry) error {
	var buf bytes.Buffer
	for _, e := range entries {
		if strings.ContainsAny(e.Path, "\r\n") {
			return issue.New(issue.CodeCacheWrite, "path %q cannot be stored in the source cache", e.Path)
		}
		buf.WriteString(strconv.FormatUint(e.Hash, 10))
		buf.WriteByte(Delimiter)
		buf.WriteString(e.Path)
		buf.WriteByte('\n')
	}
	if err := writeFileAtomic(c.cacheDir, c.file, buf.Bytes()); err != nil {
		return issue.Wrap(issue.CodeCacheWrite, err, "cannot write source cache %s", c.file)
	}
	c.logger.Debug("committed source cache", "path", c.file, "entries", len(entries))
	return nil
}

// Reset writes an empty cache.
func (c *Cache) Reset() error {
	return c.Commit(nil)
}

func parse(name string, data []byte) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if text == "" {
			continue
		}
		hashText, p, ok := strings.Cut(text, string(Delimiter))
		if !ok {
			return nil, issue.New(issue.CodeCacheParse, "%s:%d: missing %q delimiter", name, line, Delimiter)
		}
		sum, err := strconv.ParseUint(hashText, 10, 64)
		if err != nil {
			return nil, issue.Wrap(issue.CodeCacheParse, err, "%s:%d: invalid hash", name, line)
		}
		if p == "" {
			return nil, issue.New(issue.CodeCacheParse, "%s:%d: empty path", name, line)
		}
		entries = append(entries, Entry{Hash: sum, Path: p})
	}
	if err := sc.Err(); err != nil {
		return nil, issue.Wrap(issue.CodeCacheParse, err, "%s:%d: cannot read line", name, line+1)
	}
	return entries, nil
}

func hashFile(p string) (uint64, error) {
	f, err := os.Open(p)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func writeFileAtomic(dir, dest string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dest)
}

// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	// ManifestFileName is the project manifest file at the project root.
	ManifestFileName = "config.toml"
	// CacheDirName is the hidden directory holding shafa state.
	CacheDirName = ".shafaCache"
	// SourceCacheFileName is the content-hash cache inside CacheDirName.
	SourceCacheFileName = "source.cache"
	// BinDirName is the output directory for linked artifacts.
	BinDirName = "bin"
	// ObjDirName is the intermediate object directory inside BinDirName.
	ObjDirName = "obj"
	// DiscoveryToolName is the toolchain discovery executable.
	DiscoveryToolName = "vswhere.exe"
)

// ErrEmptyRoot is returned by NewEnvironment when no root is given.
var ErrEmptyRoot = errors.New("project root must not be empty")

// Environment is the set of project paths derived from a single root.
// It is immutable after construction.
type Environment struct {
	root              string
	cacheDir          string
	cacheBinDir       string
	discoveryToolPath string
	sourceCachePath   string
	binDir            string
	objectDir         string
	manifestPath      string
}

// NewEnvironment derives every project path from root. Relative roots are
// made absolute.
func NewEnvironment(root string) (*Environment, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %q: %w", root, err)
	}
	cacheDir := filepath.Join(abs, CacheDirName)
	cacheBin := filepath.Join(cacheDir, BinDirName)
	binDir := filepath.Join(abs, BinDirName)
	return &Environment{
		root:              abs,
		cacheDir:          cacheDir,
		cacheBinDir:       cacheBin,
		discoveryToolPath: filepath.Join(cacheBin, DiscoveryToolName),
		sourceCachePath:   filepath.Join(cacheDir, SourceCacheFileName),
		binDir:            binDir,
		objectDir:         filepath.Join(binDir, ObjDirName),
		manifestPath:      filepath.Join(abs, ManifestFileName),
	}, nil
}

// Root returns the absolute project root.
func (e *Environment) Root() string { return e.root }

// CacheDir returns <root>/.shafaCache.
func (e *Environment) CacheDir() string { return e.cacheDir }

// CacheBinDir returns <root>/.shafaCache/bin.
func (e *Environment) CacheBinDir() string { return e.cacheBinDir }

// DiscoveryToolPath returns the location of the cached vswhere.exe.
func (e *Environment) DiscoveryToolPath() string { return e.discoveryToolPath }

// SourceCachePath returns <root>/.shafaCache/source.cache.
func (e *Environment) SourceCachePath() string { return e.sourceCachePath }

// BinDir returns <root>/bin.
func (e *Environment) BinDir() string { return e.binDir }

// ObjectDir returns <root>/bin/obj.
func (e *Environment) ObjectDir() string { return e.objectDir }

// ManifestPath returns <root>/config.toml.
func (e *Environment) ManifestPath() string { return e.manifestPath }

// Directories returns the directories configure must create, parents first.
func (e *Environment) Directories() []string {
	return []string{e.cacheDir, e.cacheBinDir, e.binDir, e.objectDir}
}

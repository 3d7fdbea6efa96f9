// SPDX-License-Identifier: MPL-2.0

package sourcecache

import (
	"path"
	"path/filepath"
	"strings"
)

// Delimiter separates the hash from the path on each cache line.
const Delimiter = '@'

var (
	translationUnitExts = map[string]bool{
		".c": true, ".cc": true, ".cpp": true, ".cxx": true,
	}
	trackedExts = map[string]bool{
		".c": true, ".cc": true, ".cpp": true, ".cxx": true,
		".h": true, ".hpp": true, ".inl": true,
		".toml": true,
	}
)

// Entry is one tracked file: its xxhash64 digest and its slash-separated
// path relative to the project root.
type Entry struct {
	Hash uint64
	Path string
}

// IsTracked reports whether p has an extension the cache follows.
func IsTracked(p string) bool {
	return trackedExts[strings.ToLower(path.Ext(filepath.ToSlash(p)))]
}

// IsTranslationUnit reports whether p is a source file handed to the compiler.
func IsTranslationUnit(p string) bool {
	return translationUnitExts[strings.ToLower(path.Ext(filepath.ToSlash(p)))]
}

// Paths returns the paths of entries in order.
func Paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

// TranslationUnits returns the entries that are translation units, in order.
func TranslationUnits(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if IsTranslationUnit(e.Path) {
			out = append(out, e)
		}
	}
	return out
}

// OnlyTranslationUnits reports whether every entry is a translation unit.
func OnlyTranslationUnits(entries []Entry) bool {
	for _, e := range entries {
		if !IsTranslationUnit(e.Path) {
			return false
		}
	}
	return true
}

// Diff returns the entries of current whose (hash, path) pair is absent from
// persisted, in the order of current. Deleted files are never reported.
func Diff(current, persisted []Entry) []Entry {
	known := make(map[Entry]struct{}, len(persisted))
	for _, e := range persisted {
		known[e] = struct{}{}
	}
	var out []Entry
	for _, e := range current {
		if _, ok := known[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// Removed returns the persisted entries whose path no longer appears in
// current, in the order of persisted.
func Removed(current, persisted []Entry) []Entry {
	present := make(map[string]struct{}, len(current))
	for _, e := range current {
		present[e.Path] = struct{}{}
	}
	var out []Entry
	for _, e := range persisted {
		if _, ok := present[e.Path]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// SPDX-License-Identifier: MPL-2.0

// Package sourcecache tracks the content hashes of a project's source files
// between builds.
//
// Scan hashes every tracked file under the project root. Load reads the hashes
// persisted by the last successful build, Diff reports what changed, and
// Commit persists a new snapshot. The cache file holds one
// "<decimal-hash>@<relative-path>" entry per line.
package sourcecache

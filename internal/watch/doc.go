// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a build when tracked project sources change.
//
// A Watcher registers every project directory except the cache and output
// directories, filters events down to tracked source extensions, and
// coalesces bursts of events into one callback after a quiet period.
package watch

// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package workflow

// hideDir is a no-op; the leading dot already hides the directory.
func hideDir(string) error { return nil }

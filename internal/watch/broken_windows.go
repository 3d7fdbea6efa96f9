// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isBrokenWatchError reports handle or memory exhaustion and invalidated
// directory handles, after which ReadDirectoryChangesW stops reporting.
func isBrokenWatchError(err error) bool {
	for _, errno := range []error{
		windows.ERROR_TOO_MANY_OPEN_FILES,
		windows.ERROR_INVALID_HANDLE,
		windows.ERROR_NOT_ENOUGH_MEMORY,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

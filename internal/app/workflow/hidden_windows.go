// SPDX-License-Identifier: MPL-2.0

//go:build windows

package workflow

import "golang.org/x/sys/windows"

// hideDir sets FILE_ATTRIBUTE_HIDDEN on dir.
func hideDir(dir string) error {
	p, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}
	return windows.SetFileAttributes(p, attrs|windows.FILE_ATTRIBUTE_HIDDEN)
}

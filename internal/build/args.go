// SPDX-License-Identifier: MPL-2.0

package build

import (
	"path/filepath"
	"slices"
)

// msvcCompileArgs builds the cl.exe argument list. Each standard flag is
// omitted when its standard is empty.
func msvcCompileArgs(objDir, cppStd, cStd string, flags, files []string) []string {
	args := []string{"/nologo", "/c"}
	if cppStd != "" {
		args = append(args, "/std:"+cppStd)
	}
	if cStd != "" {
		args = append(args, "/std:"+cStd)
	}
	dirArg := objDir + string(filepath.Separator)
	args = append(args, "/Fo"+dirArg, "/Fd"+dirArg)
	return slices.Concat(args, flags, files)
}

// msvcLinkArgs builds the link.exe argument list for an executable.
func msvcLinkArgs(objects, flags []string, output string) []string {
	return slices.Concat([]string{"/nologo"}, objects, flags, []string{"/OUT:" + output})
}

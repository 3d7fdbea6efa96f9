// SPDX-License-Identifier: MPL-2.0

package runtime

import "strconv"

// ExitCode is a process exit status. Windows tools may report values above
// 255, so the full int range is kept.
type ExitCode int

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

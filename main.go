// SPDX-License-Identifier: MPL-2.0

// Command shafa is an incremental build orchestrator for C and C++ projects.
package main

import "github.com/neoshafa/shafa/cmd/shafa"

func main() {
	cmd.Execute()
}

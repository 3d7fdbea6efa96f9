// SPDX-License-Identifier: MPL-2.0

// Package build drives one incremental build of a project.
//
// Pipeline is a linear state machine: prebuild hook, compile, link, postbuild
// hook. Compile and link failures end the run in StageFailed. Hook failures are
// logged and the pipeline moves on.
package build

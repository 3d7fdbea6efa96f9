// SPDX-License-Identifier: MPL-2.0

// Package workflow drives the configure and build commands over one project
// session.
//
// A command is a fixed sequence of steps. A failing step is logged and the
// command moves on to the next one, except that a build cannot continue
// without a source diff and stops at the first compile or link failure. The
// returned error joins every step failure so the CLI can exit non-zero.
package workflow

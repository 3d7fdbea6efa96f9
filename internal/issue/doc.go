// SPDX-License-Identifier: MPL-2.0

// Package issue defines shafa's error taxonomy and user-facing remediation.
//
// Every failure carries a numeric Code from a flat space partitioned by concern
// (I/O, manifest, configure, build, hook scripts). *Error binds a Code to a
// message and cause and matches by code under errors.Is. ActionableError wraps
// errors at the CLI boundary with an operation, a resource and suggestions, and
// Lookup returns Markdown guidance for the most common codes.
package issue

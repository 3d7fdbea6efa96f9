// SPDX-License-Identifier: MPL-2.0

// Package manifest reads config.toml into a typed project.Manifest.
//
// Load parses the TOML file into a Document that only answers presence and
// type questions. Binder walks a Document, checks the required keys in a fixed
// order, and writes every recognized optional key through the manifest's
// binding table.
package manifest

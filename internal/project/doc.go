// SPDX-License-Identifier: MPL-2.0

// Package project holds the typed model of a native project: the immutable
// Environment of derived paths, the Manifest bound from config.toml, the
// BindingTable that maps manifest keys to Manifest fields, and the Session that
// carries both through one build.
package project

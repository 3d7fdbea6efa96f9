// SPDX-License-Identifier: MPL-2.0

// Package config loads shafa's user configuration.
//
// The configuration lives in config.cue under the platform config directory
// (or the file given by --config). It is validated against the embedded CUE
// schema (config_schema.cue), merged over defaults with Viper, and may be
// overridden per key with SHAFA_* environment variables such as
// SHAFA_UI_VERBOSE or SHAFA_TOOLCHAIN_DISCOVERY_VERSION.
package config

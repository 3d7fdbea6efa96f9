// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the shafa command line.
package cmd

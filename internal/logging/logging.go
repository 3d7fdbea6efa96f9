// SPDX-License-Identifier: MPL-2.0

// Package logging builds the charmbracelet/log loggers shared by shafa's
// components.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "shafa"

// New returns a logger writing to w at Info, or Debug when verbose is set.
func New(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

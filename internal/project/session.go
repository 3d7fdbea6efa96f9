// SPDX-License-Identifier: MPL-2.0

package project

import "github.com/google/uuid"

// Session is the context of one shafa invocation. The binder writes the
// manifest settings, a toolchain locator writes Manifest.Toolchain, and every
// other component only reads.
type Session struct {
	ID       string
	Env      *Environment
	Manifest *Manifest
}

// NewSession creates a session for env with a fresh ID and an empty manifest.
func NewSession(env *Environment) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Env:      env,
		Manifest: NewManifest(),
	}
}

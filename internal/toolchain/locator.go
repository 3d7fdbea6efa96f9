// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
	"github.com/neoshafa/shafa/internal/project"
	"github.com/neoshafa/shafa/internal/runtime"
)

type (
	// Locator resolves tool paths for one compiler family. Locate writes
	// session.Manifest.Toolchain only when every tool was found.
	Locator interface {
		Compiler() project.Compiler
		Locate(ctx context.Context, session *project.Session) error
	}

	// Deps are the collaborators a Locator may need.
	Deps struct {
		Runner  runtime.CommandRunner
		Fetcher Fetcher
		Logger  *log.Logger
		// DiscoveryURL is the vswhere download location. Empty uses
		// DiscoveryURL(DefaultDiscoveryURLTemplate, DefaultDiscoveryVersion).
		DiscoveryURL string
	}

	unsupportedLocator struct {
		compiler project.Compiler
	}
)

// For returns the Locator strategy for c.
func For(c project.Compiler, deps Deps) Locator {
	deps.Logger = logging.OrDiscard(deps.Logger)
	switch c {
	case project.CompilerMSVC:
		if deps.Runner == nil {
			deps.Runner = runtime.NewExecRunner(deps.Logger)
		}
		if deps.Fetcher == nil {
			deps.Fetcher = NewHTTPFetcher()
		}
		if deps.DiscoveryURL == "" {
			deps.DiscoveryURL, _ = DiscoveryURL(DefaultDiscoveryURLTemplate, DefaultDiscoveryVersion)
		}
		return &msvcLocator{deps: deps}
	default:
		return unsupportedLocator{compiler: c}
	}
}

func (l unsupportedLocator) Compiler() project.Compiler { return l.compiler }

func (l unsupportedLocator) Locate(context.Context, *project.Session) error {
	return issue.New(issue.CodeUnsupportedToolchain, "toolchain %s is not supported yet", l.compiler)
}

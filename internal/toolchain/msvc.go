// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/project"
	"github.com/neoshafa/shafa/internal/runtime"
)

// Host and target architecture of the MSVC tools shafa drives.
const (
	msvcHostArch   = "HostX64"
	msvcTargetArch = "x64"
)

// vswhereArgs select the newest installation, prereleases included, that
// ships the x86/x64 C++ tools, and print only its path.
var vswhereArgs = []string{
	"-latest", "-prerelease", "-products", "*",
	"-requires", "Microsoft.VisualStudio.Component.VC.Tools.x86.x64",
	"-property", "installationPath",
}

type msvcLocator struct {
	deps Deps
}

func (l *msvcLocator) Compiler() project.Compiler { return project.CompilerMSVC }

func (l *msvcLocator) Locate(ctx context.Context, session *project.Session) error {
	logger := l.deps.Logger
	toolPath := session.Env.DiscoveryToolPath()

	if _, err := os.Stat(toolPath); err != nil {
		logger.Info("downloading vswhere", "url", l.deps.DiscoveryURL, "path", toolPath)
		if err := l.deps.Fetcher.Fetch(ctx, l.deps.DiscoveryURL, toolPath); err != nil {
			logger.Warn("cannot download vswhere", "code", int(issue.CodeOf(err)), "err", err)
		}
	}

	res := l.deps.Runner.Run(ctx, runtime.Command{Path: toolPath, Args: vswhereArgs})
	if res.Error != nil {
		return res.Error
	}
	if !res.ExitCode.IsSuccess() {
		logger.Warn("vswhere exited with non-zero status", "exit_code", int(res.ExitCode))
	}

	installDir := strings.TrimSpace(res.Output)
	if installDir == "" {
		return issue.New(issue.CodeNoInstallation,
			"could not find a Visual Studio installation with the C++ x64 tools")
	}

	versionFile := filepath.Join(installDir, "VC", "Auxiliary", "Build", "Microsoft.VCToolsVersion.default.txt")
	version, err := readToolsetVersion(versionFile)
	if err != nil {
		return err
	}

	toolsDir := filepath.Join(installDir, "VC", "Tools", "MSVC", version, "bin", msvcHostArch, msvcTargetArch)
	paths := project.ToolchainPaths{
		CCompiler:   filepath.Join(toolsDir, "cl.exe"),
		CXXCompiler: filepath.Join(toolsDir, "cl.exe"),
		Librarian:   filepath.Join(toolsDir, "lib.exe"),
		Linker:      filepath.Join(toolsDir, "link.exe"),
	}
	checks := []struct {
		path string
		code issue.Code
	}{
		{paths.CXXCompiler, issue.CodeCompilerNotFound},
		{paths.Librarian, issue.CodeLibrarianNotFound},
		{paths.Linker, issue.CodeLinkerNotFound},
	}
	for _, c := range checks {
		if !isFile(c.path) {
			return issue.New(c.code, "could not find %s", c.path)
		}
	}

	session.Manifest.Toolchain = paths
	logger.Info("toolchain located",
		"compiler", paths.CXXCompiler,
		"librarian", paths.Librarian,
		"linker", paths.Linker)
	return nil
}

// readToolsetVersion returns the trimmed first line of the toolset version file.
func readToolsetVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", issue.Wrap(issue.CodeInvalidToolsetVersion, err, "cannot read MSVC version file %s", path)
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	var version string
	if sc.Scan() {
		version = strings.TrimSpace(sc.Text())
	}
	if version == "" {
		return "", issue.New(issue.CodeInvalidToolsetVersion, "MSVC version is empty in %s", path)
	}
	return version, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

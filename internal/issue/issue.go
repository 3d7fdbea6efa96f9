// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type (
	// MarkdownMsg is remediation guidance written in Markdown.
	MarkdownMsg string

	// HttpLink is an external reference shown under "See also".
	//
	//nolint:revive // kept for symmetry with MarkdownMsg
	HttpLink string

	// Issue is the remediation guidance attached to one error code.
	Issue struct {
		code     Code
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		code: CodeManifestNotFound,
		mdMsg: `
# No project manifest found!

shafa expects a ` + "`config.toml`" + ` at the project root.

## Minimal manifest
~~~toml
ProjectName = "hello"
ProjectVersion = "0.1.0"
ProjectLanguage = "C++"
ProjectType = "Executable"
CppStandard = "c++20"
~~~

## Things you can try
- Run shafa from the project root, or pass ` + "`--project-dir`" + `
- Check the file name is exactly ` + "`config.toml`",
	}

	manifestParseIssue = &Issue{
		code: CodeManifestParse,
		mdMsg: `
# The project manifest is not valid TOML

## Things you can try
- Check the line and column reported above
- Quote every string value
- Flag lists must be arrays of strings, e.g. ` + "`CompilerFlags = [\"/W4\"]`",
	}

	unexpectedProjectTypeIssue = &Issue{
		code: CodeUnexpectedProjectType,
		mdMsg: `
# Unknown project type

` + "`ProjectType`" + ` must be one of:
- ` + "`Executable`" + `
- ` + "`StaticLibrary`" + `
- ` + "`DynamicLibrary`",
	}

	cacheParseIssue = &Issue{
		code: CodeCacheParse,
		mdMsg: `
# The source cache is corrupted

The file ` + "`.shafaCache/source.cache`" + ` contains a malformed line.

## Things you can try
- Rebuild the cache from scratch:
~~~
$ shafa configure
~~~`,
	}

	cacheReadIssue = &Issue{
		code: CodeCacheRead,
		mdMsg: `
# The source cache could not be read

The project has probably never been configured.

## Things you can try
~~~
$ shafa configure
$ shafa build
~~~`,
	}

	noInstallationIssue = &Issue{
		code: CodeNoInstallation,
		mdMsg: `
# No Visual Studio installation found

vswhere did not report any installation with the
` + "`Microsoft.VisualStudio.Component.VC.Tools.x86.x64`" + ` component.

## Things you can try
- Install "Desktop development with C++" in the Visual Studio Installer
- Install the standalone Build Tools for Visual Studio`,
		extLinks: []HttpLink{"https://visualstudio.microsoft.com/downloads/"},
	}

	unsupportedToolchainIssue = &Issue{
		code: CodeUnsupportedToolchain,
		mdMsg: `
# Toolchain not supported yet

Only the MSVC toolchain can be located at the moment. Clang and GCC are
recognized in the manifest but have no discovery strategy.

## Things you can try
- Set ` + "`Compiler = \"MSVC\"`" + ` and build on Windows
- Run ` + "`shafa compilers`" + ` to see what is implemented`,
	}

	compilerRunFailedIssue = &Issue{
		code: CodeCompilerRunFailed,
		mdMsg: `
# The compiler reported errors

The source cache was not updated, so the next ` + "`shafa build`" + ` retries the
same files.

## Things you can try
- Fix the diagnostics printed above
- Re-run with ` + "`--verbose`" + ` to see the full compiler command line`,
	}

	linkerRunFailedIssue = &Issue{
		code: CodeLinkerRunFailed,
		mdMsg: `
# The linker reported errors

## Things you can try
- Check for missing symbols or libraries in the output above
- Add libraries through ` + "`LinkerFlags`" + ` or ` + "`MsvcLinkerFlags`",
	}

	scriptExecutionIssue = &Issue{
		code: CodeScriptExecution,
		mdMsg: `
# A build hook failed

Hook failures never stop the build; the pipeline continued with the next stage.
Hooks run in the built-in POSIX shell interpreter.

## Things you can try
- Run the script by hand with ` + "`sh <script>`" + `
- Use ` + "`$SHAFA_PROJECT_ROOT`" + ` and ` + "`$SHAFA_BIN_DIR`" + ` instead of relative paths`,
	}

	issues = map[Code]*Issue{
		manifestNotFoundIssue.Code():      manifestNotFoundIssue,
		manifestParseIssue.Code():         manifestParseIssue,
		unexpectedProjectTypeIssue.Code(): unexpectedProjectTypeIssue,
		cacheParseIssue.Code():            cacheParseIssue,
		cacheReadIssue.Code():             cacheReadIssue,
		noInstallationIssue.Code():        noInstallationIssue,
		unsupportedToolchainIssue.Code():  unsupportedToolchainIssue,
		compilerRunFailedIssue.Code():     compilerRunFailedIssue,
		linkerRunFailedIssue.Code():       linkerRunFailedIssue,
		scriptExecutionIssue.Code():       scriptExecutionIssue,
	}
)

// Code returns the error code this issue documents.
func (i *Issue) Code() Code {
	return i.code
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guidance for a terminal using the given glamour style
// ("dark", "light", "notty", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			md.WriteString("- " + string(link) + "\n")
		}
	}
	return render(md.String(), stylePath)
}

// Lookup returns the issue documenting code, or nil.
func Lookup(code Code) *Issue {
	return issues[code]
}

// ForError returns the issue documenting the code carried by err, or nil.
func ForError(err error) *Issue {
	return Lookup(CodeOf(err))
}

// Values returns all documented issues ordered by code.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.code - b.code) })
	return out
}

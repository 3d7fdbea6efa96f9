// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestActionableError_Hints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want []string
	}{
		{
			name: "default hint from code",
			err:  WrapWithOperation(New(CodeCacheRead, "no cache"), "build project"),
			want: []string{"Run 'shafa configure' before 'shafa build'"},
		},
		{
			name: "explicit suggestion wins",
			err: NewErrorContext().
				WithOperation("build project").
				WithSuggestion("Delete .shafaCache").
				Wrap(New(CodeCacheRead, "no cache")).
				Build(),
			want: []string{"Delete .shafaCache"},
		},
		{
			name: "no code no hint",
			err:  WrapWithOperation(errors.New("boom"), "build project"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Hints(); !slices.Equal(got, tt.want) {
				t.Errorf("Hints() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_FormatJoinedChain(t *testing.T) {
	t.Parallel()

	err := WrapWithOperation(errors.Join(
		New(CodeMissingProjectName, "required key ProjectName is missing"),
		New(CodeNoInstallation, "no installation found"),
	), "configure project")

	out := err.Format(true)
	for _, want := range []string{
		"Code: 103 MissingProjectName (manifest)",
		"\n    - required key ProjectName is missing (code 103)",
		"\n    - no installation found (code 207)",
		"Add ProjectName to config.toml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, out)
		}
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().Wrap(errors.New("x")).BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
	if WrapWithOperation(nil, "anything") != nil {
		t.Error("WrapWithOperation(nil) should be nil")
	}

	ae := NewErrorContext().WithOperation("load configuration").WithResource("config.cue").Build()
	if got := ae.Error(); got != "failed to load configuration: config.cue" {
		t.Errorf("Error() = %q", got)
	}
}

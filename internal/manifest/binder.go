// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/neoshafa/shafa/internal/issue"
	"github.com/neoshafa/shafa/internal/logging"
	"github.com/neoshafa/shafa/internal/project"
)

type (
	// Binder writes Document values into a project.Manifest.
	Binder struct {
		logger *log.Logger
	}

	// Report describes what a Bind call did.
	Report struct {
		// Bound lists the keys written to the manifest, in binding order.
		Bound []string
		// Ignored lists keys with no entry in the binding table.
		Ignored []string
		// Warnings are non-fatal problems: wrong value types, empty strings
		// and unrecognized enum values.
		Warnings []string
	}

	requiredKey struct {
		key  string
		code issue.Code
	}
)

// requiredKeys are checked in this order; the first failure wins.
var requiredKeys = []requiredKey{
	{project.KeyProjectName, issue.CodeMissingProjectName},
	{project.KeyProjectVersion, issue.CodeMissingProjectVersion},
	{project.KeyProjectLanguage, issue.CodeMissingProjectLanguage},
	{project.KeyProjectType, issue.CodeMissingProjectType},
}

// NewBinder creates a Binder. A nil logger discards output.
func NewBinder(logger *log.Logger) *Binder {
	return &Binder{logger: logging.OrDiscard(logger)}
}

// BindFile loads path and binds it into m.
func (b *Binder) BindFile(path string, m *project.Manifest) (*Report, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return b.Bind(doc, m)
}

// Bind validates the required keys of doc and writes every recognized key
// into m. It returns on the first required-key failure, in which case m may
// hold the required values bound before the failure.
func (b *Binder) Bind(doc *Document, m *project.Manifest) (*Report, error) {
	table := m.Bindings()
	report := &Report{}

	for _, rk := range requiredKeys {
		value, ok := doc.String(rk.key)
		if !ok {
			return nil, issue.New(rk.code, "required key %s is missing or not a string", rk.key)
		}
		if err := table[rk.key].Set(value); err != nil {
			if errors.Is(err, project.ErrInvalidProjectType) {
				return nil, issue.Wrap(issue.CodeUnexpectedProjectType, err, "unexpected project type %q", value)
			}
			return nil, fmt.Errorf("bind %s: %w", rk.key, err)
		}
		if value == "" {
			report.warn(b.logger, rk.key, "empty value")
		}
		report.Bound = append(report.Bound, rk.key)
	}

	for _, key := range doc.Keys() {
		if isRequired(key) {
			continue
		}
		binding, ok := table.Lookup(key)
		if !ok {
			b.logger.Debug("ignoring unrecognized manifest key", "key", key)
			report.Ignored = append(report.Ignored, key)
			continue
		}
		b.bindOptional(doc, key, binding, report)
	}

	return report, nil
}

func (b *Binder) bindOptional(doc *Document, key string, binding project.Binding, report *Report) {
	var value any
	switch {
	case binding.Kind() == project.KindStringList:
		l, ok := doc.StringList(key)
		if !ok {
			report.warn(b.logger, key, "expected an array of strings")
			return
		}
		value = l
	default:
		s, ok := doc.String(key)
		if !ok {
			report.warn(b.logger, key, "expected a string")
			return
		}
		if s == "" {
			report.warn(b.logger, key, "empty value")
		}
		value = s
	}

	if err := binding.Set(value); err != nil {
		// Enum bindings store Unknown before reporting the parse error.
		report.warn(b.logger, key, err.Error())
		if !errors.Is(err, project.ErrInvalidCompiler) && !errors.Is(err, project.ErrInvalidTarget) {
			return
		}
	}
	report.Bound = append(report.Bound, key)
}

func (r *Report) warn(logger *log.Logger, key, msg string) {
	w := key + ": " + msg
	logger.Warn("manifest", "key", key, "problem", msg)
	r.Warnings = append(r.Warnings, w)
}

func isRequired(key string) bool {
	for _, rk := range requiredKeys {
		if rk.key == key {
			return true
		}
	}
	return false
}

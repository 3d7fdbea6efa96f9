// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"slices"
)

// Manifest keys.
const (
	KeyProjectName     = "ProjectName"
	KeyProjectVersion  = "ProjectVersion"
	KeyProjectLanguage = "ProjectLanguage"
	KeyProjectType     = "ProjectType"
	KeyCompiler        = "Compiler"
	KeyTarget          = "Target"
	KeyCStandard       = "CStandard"
	KeyCppStandard     = "CppStandard"
	KeyPrebuild        = "Prebuild"
	KeyPostbuild       = "Postbuild"
)

const (
	// KindString binds a string field.
	KindString BindingKind = iota + 1
	// KindStringList binds a []string field.
	KindStringList
	// KindProjectType binds the ProjectType enum.
	KindProjectType
	// KindCompiler binds the Compiler enum.
	KindCompiler
	// KindTarget binds the Target enum.
	KindTarget
)

// ErrWrongKind is the sentinel wrapped by WrongKindError.
var ErrWrongKind = errors.New("value has the wrong kind for binding")

type (
	// BindingKind identifies the field type behind a Binding.
	BindingKind int

	// Binding is a typed reference to one Manifest field.
	Binding interface {
		Kind() BindingKind
		Get() any
		// Set stores v. Enum bindings accept a string; an unrecognized enum
		// value stores the Unknown member and returns the parse error.
		Set(v any) error
	}

	// BindingTable maps a literal manifest key to its Binding.
	BindingTable map[string]Binding

	// WrongKindError is returned by Binding.Set when v has the wrong Go type.
	WrongKindError struct {
		Want BindingKind
		Got  any
	}

	stringBinding      struct{ field *string }
	stringListBinding  struct{ field *[]string }
	projectTypeBinding struct{ field *ProjectType }
	compilerBinding    struct{ field *Compiler }
	targetBinding      struct{ field *Target }
)

// String returns the kind name.
func (k BindingKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindStringList:
		return "string list"
	case KindProjectType:
		return "project type"
	case KindCompiler:
		return "compiler"
	case KindTarget:
		return "target"
	default:
		return fmt.Sprintf("BindingKind(%d)", int(k))
	}
}

// IsStringValued reports whether the kind is bound from a TOML string.
func (k BindingKind) IsStringValued() bool { return k != KindStringList }

// Error implements the error interface.
func (e *WrongKindError) Error() string {
	return fmt.Sprintf("expected %s, got %T", e.Want, e.Got)
}

// Unwrap returns ErrWrongKind.
func (e *WrongKindError) Unwrap() error { return ErrWrongKind }

// Keys returns the table's keys in sorted order.
func (t BindingTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup returns the binding for key.
func (t BindingTable) Lookup(key string) (Binding, bool) {
	b, ok := t[key]
	return b, ok
}

func newBindingTable(m *Manifest) BindingTable {
	t := BindingTable{
		KeyProjectName:     stringBinding{&m.Name},
		KeyProjectVersion:  stringBinding{&m.Version},
		KeyProjectLanguage: stringBinding{&m.Language},
		KeyProjectType:     projectTypeBinding{&m.Type},
		KeyCompiler:        compilerBinding{&m.Compiler},
		KeyTarget:          targetBinding{&m.Target},
		KeyCStandard:       stringBinding{&m.CStandard},
		KeyCppStandard:     stringBinding{&m.CppStandard},
		KeyPrebuild:        stringBinding{&m.Prebuild},
		KeyPostbuild:       stringBinding{&m.Postbuild},
	}
	addFlags := func(prefix string, f *ToolFlags) {
		t[prefix+"CompilerFlags"] = stringListBinding{&f.Compiler}
		t[prefix+"LibrarianFlags"] = stringListBinding{&f.Librarian}
		t[prefix+"LinkerFlags"] = stringListBinding{&f.Linker}
	}
	addFlags("", &m.Flags)
	addFlags("Msvc", &m.MSVCFlags)
	addFlags("Clang", &m.ClangFlags)
	addFlags("Gcc", &m.GCCFlags)
	return t
}

func (stringBinding) Kind() BindingKind { return KindString }
func (b stringBinding) Get() any { return *b.field }
func (b stringBinding) Set(v any) error {
	s, ok := v.(string)
	if !ok {
		return &WrongKindError{Want: KindString, Got: v}
	}
	*b.field = s
	return nil
}

func (stringListBinding) Kind() BindingKind { return KindStringList }
func (b stringListBinding) Get() any { return slices.Clone(*b.field) }
func (b stringListBinding) Set(v any) error {
	l, ok := v.([]string)
	if !ok {
		return &WrongKindError{Want: KindStringList, Got: v}
	}
	*b.field = slices.Clone(l)
	return nil
}

func (projectTypeBinding) Kind() BindingKind { return KindProjectType }
func (b projectTypeBinding) Get() any { return *b.field }
func (b projectTypeBinding) Set(v any) error {
	s, ok := v.(string)
	if !ok {
		return &WrongKindError{Want: KindProjectType, Got: v}
	}
	pt := ProjectType(s)
	if err := pt.Validate(); err != nil {
		return err
	}
	*b.field = pt
	return nil
}

func (compilerBinding) Kind() BindingKind { return KindCompiler }
func (b compilerBinding) Get() any { return *b.field }
func (b compilerBinding) Set(v any) error {
	s, ok := v.(string)
	if !ok {
		return &WrongKindError{Want: KindCompiler, Got: v}
	}
	c, err := ParseCompiler(s)
	*b.field = c
	return err
}

func (targetBinding) Kind() BindingKind { return KindTarget }
func (b targetBinding) Get() any { return *b.field }
func (b targetBinding) Set(v any) error {
	s, ok := v.(string)
	if !ok {
		return &WrongKindError{Want: KindTarget, Got: v}
	}
	t, err := ParseTarget(s)
	*b.field = t
	return err
}

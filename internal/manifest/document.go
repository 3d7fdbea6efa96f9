// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/neoshafa/shafa/internal/issue"
)

// Document is a parsed manifest. It exposes top-level keys only.
type Document struct {
	path   string
	values map[string]any
}

// Load reads and parses the TOML file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, issue.Wrap(issue.CodeManifestNotFound, err, "manifest %s not found", path)
		}
		return nil, issue.Wrap(issue.CodeCannotReadFile, err, "cannot read manifest %s", path)
	}
	return Parse(path, data)
}

// Parse parses TOML data. path is used in error messages only.
func Parse(path string, data []byte) (*Document, error) {
	values := make(map[string]any)
	if err := toml.Unmarshal(data, &values); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, issue.Wrap(issue.CodeManifestParse, err, "%s:%d:%d: invalid TOML", path, row, col)
		}
		return nil, issue.Wrap(issue.CodeManifestParse, err, "%s: invalid TOML", path)
	}
	return &Document{path: path, values: values}, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string { return d.path }

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// IsString reports whether key holds a string.
func (d *Document) IsString(key string) bool {
	_, ok := d.values[key].(string)
	return ok
}

// String returns the string value of key.
func (d *Document) String(key string) (string, bool) {
	s, ok := d.values[key].(string)
	return s, ok
}

// IsStringList reports whether key holds an array whose elements are all
// strings. An empty array qualifies.
func (d *Document) IsStringList(key string) bool {
	_, ok := d.StringList(key)
	return ok
}

// StringList returns the string array value of key.
func (d *Document) StringList(key string) ([]string, bool) {
	raw, ok := d.values[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Keys returns the top-level keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

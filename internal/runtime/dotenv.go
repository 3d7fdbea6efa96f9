// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"io/fs"
	"maps"
	"os"

	"github.com/joho/godotenv"

	"github.com/neoshafa/shafa/internal/issue"
)

// DotenvFileName is the optional per-project environment file for hooks.
const DotenvFileName = ".env"

// LoadEnvFile merges the dotenv file at path into env. Keys already in env
// keep their value. A missing file is not an error.
func LoadEnvFile(env map[string]string, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return issue.Wrap(issue.CodeScriptUnreadable, err, "cannot open env file %s", path)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return issue.Wrap(issue.CodeScriptUnreadable, err, "cannot parse env file %s", path)
	}
	maps.DeleteFunc(vars, func(k, _ string) bool {
		_, set := env[k]
		return set
	})
	maps.Copy(env, vars)
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/neoshafa/shafa/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "shafa"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. SHAFA_UI_VERBOSE.
	EnvPrefix = "SHAFA"
)

//go:embed config_schema.cue
var configSchema string

// dirOverride replaces ConfigDir in tests, since os.UserHomeDir ignores HOME
// on some platforms.
var dirOverride string

// LoadOptions selects where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath names an explicit file, which must exist.
	ConfigFilePath string
	// ConfigDirPath replaces ConfigDir when looking for config.cue.
	ConfigDirPath string
}

// SetConfigDirOverride makes ConfigDir return dir.
func SetConfigDirOverride(dir string) {
	dirOverride = dir
}

// Reset clears SetConfigDirOverride.
func Reset() {
	dirOverride = ""
}

// ConfigDir returns the shafa directory under the platform's user config
// root: %APPDATA% on Windows, ~/Library/Application Support on macOS and
// $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
//nolint:revive // config.Dir would read ambiguously next to project dirs
func ConfigDir() (string, error) {
	if dirOverride != "" {
		return dirOverride, nil
	}
	base, err := userConfigBase()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

func userConfigBase() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// DefaultConfigPath returns <ConfigDir>/config.cue.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load builds the effective configuration: defaults, then the config file
// when one is found, then SHAFA_* environment overrides. It also returns the
// file that was read, or "" when none was.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	v := newViper()
	if path != "" {
		values, err := decodeFile(path)
		if err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Compare the file with 'shafa config show'").
				Wrap(err).
				BuildError()
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, "", fmt.Errorf("merge %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check SHAFA_* environment variables for invalid values").
			Wrap(err).
			BuildError()
	}
	return &cfg, path, nil
}

// resolvePath returns the config file to read. An explicit file must exist;
// a missing config.cue in the config directory just means defaults.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Check the --config path").
				WithSuggestion("Run 'shafa config init' to create the default file").
				Wrap(issue.New(issue.CodeCannotOpenFile, "config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if p := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// newViper returns a Viper holding the defaults, with SHAFA_<SECTION>_<KEY>
// environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	for key, value := range map[string]any{
		"ui.verbose":                  d.UI.Verbose,
		"ui.color_scheme":             string(d.UI.ColorScheme),
		"toolchain.discovery_version": d.Toolchain.DiscoveryVersion,
		"toolchain.discovery_url":     d.Toolchain.DiscoveryURL,
		"toolchain.default_compiler":  d.Toolchain.DefaultCompiler,
		"hooks.enabled":               d.Hooks.Enabled,
		"watch.debounce":              d.Watch.Debounce,
		"watch.ignore":                d.Watch.Ignore,
	} {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path unless a file
// is already there, and reports whether it wrote one.
func CreateDefaultConfig(path string) (bool, error) {
	if fileExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, issue.Wrap(issue.CodeCannotWriteFile, err, "cannot create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, issue.Wrap(issue.CodeCannotWriteFile, err, "cannot write %s", path)
	}
	return true, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder
	sb.WriteString("// shafa configuration file\n")

	section := func(name string, fields ...string) {
		fmt.Fprintf(&sb, "\n%s: {\n", name)
		for _, f := range fields {
			if f != "" {
				sb.WriteString("\t" + f + "\n")
			}
		}
		sb.WriteString("}\n")
	}
	optional := func(key, value string) string {
		if value == "" {
			return ""
		}
		return fmt.Sprintf("%s: %q", key, value)
	}

	ignore := make([]string, len(cfg.Watch.Ignore))
	for i, p := range cfg.Watch.Ignore {
		ignore[i] = strconv.Quote(p)
	}

	section("ui",
		fmt.Sprintf("verbose: %t", cfg.UI.Verbose),
		fmt.Sprintf("color_scheme: %q", cfg.UI.ColorScheme))
	section("toolchain",
		fmt.Sprintf("discovery_version: %q", cfg.Toolchain.DiscoveryVersion),
		optional("discovery_url", cfg.Toolchain.DiscoveryURL),
		optional("default_compiler", cfg.Toolchain.DefaultCompiler))
	section("hooks",
		fmt.Sprintf("enabled: %t", cfg.Hooks.Enabled))
	section("watch",
		fmt.Sprintf("debounce: %q", cfg.Watch.Debounce),
		"ignore: ["+strings.Join(ignore, ", ")+"]")

	return sb.String()
}

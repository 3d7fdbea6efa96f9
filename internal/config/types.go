// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	defaultDiscoveryVersion = "3.1.7"
	defaultDebounce         = 500 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the user configuration.
	Config struct {
		UI        UIConfig        `json:"ui" mapstructure:"ui"`
		Toolchain ToolchainConfig `json:"toolchain" mapstructure:"toolchain"`
		Hooks     HooksConfig     `json:"hooks" mapstructure:"hooks"`
		Watch     WatchConfig     `json:"watch" mapstructure:"watch"`
	}

	// UIConfig controls terminal output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// ToolchainConfig controls toolchain discovery.
	ToolchainConfig struct {
		DiscoveryVersion string `json:"discovery_version" mapstructure:"discovery_version"`
		// DiscoveryURL is a download template; empty uses the vswhere
		// GitHub release for DiscoveryVersion.
		DiscoveryURL string `json:"discovery_url" mapstructure:"discovery_url"`
		// DefaultCompiler replaces an Unknown manifest compiler. Empty
		// keeps the host default.
		DefaultCompiler string `json:"default_compiler" mapstructure:"default_compiler"`
	}

	// HooksConfig controls prebuild and postbuild scripts.
	HooksConfig struct {
		Enabled bool `json:"enabled" mapstructure:"enabled"`
	}

	// WatchConfig controls `shafa watch`.
	WatchConfig struct {
		Debounce string   `json:"debounce" mapstructure:"debounce"`
		Ignore   []string `json:"ignore" mapstructure:"ignore"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Toolchain: ToolchainConfig{
			DiscoveryVersion: defaultDiscoveryVersion,
		},
		Hooks: HooksConfig{
			Enabled: true,
		},
		Watch: WatchConfig{
			Debounce: defaultDebounce.String(),
			Ignore:   []string{"**/.git/**"},
		},
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate returns nil if the ColorScheme is one of the defined schemes.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Validate checks the constraints environment overrides can violate after
// the CUE schema has accepted the file.
func (c *Config) Validate() error {
	var errs []error
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !semver.IsValid("v" + c.Toolchain.DiscoveryVersion) {
		errs = append(errs, fmt.Errorf("toolchain.discovery_version %q is not a semantic version", c.Toolchain.DiscoveryVersion))
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DebounceDuration returns the parsed watch debounce, or the default when
// the value does not parse.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

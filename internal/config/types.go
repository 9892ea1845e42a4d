// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	// ProfileRelease builds with cargo's release profile.
	ProfileRelease Profile = "release"
	// ProfileDev builds with cargo's dev profile.
	ProfileDev Profile = "dev"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidProfile is returned when a Profile value is not recognized.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPageSize is returned when a page size is not a power-of-two
	// multiple of 4096.
	ErrInvalidPageSize = errors.New("invalid page size")
)

type (
	// Profile selects the cargo build profile.
	Profile string

	// InvalidProfileError is returned when a Profile value is not recognized.
	// It wraps ErrInvalidProfile for errors.Is() compatibility.
	InvalidProfileError struct {
		Value Profile
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidPageSizeError is returned when a page size value is not a
	// power-of-two multiple of 4096. It wraps ErrInvalidPageSize.
	InvalidPageSizeError struct {
		Value int
	}

	// UIConfig holds user interface preferences.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}

	// Config is the resolved droidforge configuration.
	Config struct {
		OutputRoot        string   `mapstructure:"output_root"`
		DefaultTarget     string   `mapstructure:"default_target"`
		Features          []string `mapstructure:"features"`
		NoDefaultFeatures bool     `mapstructure:"no_default_features"`
		CargoPath         string   `mapstructure:"cargo_path"`
		NdkHome           string   `mapstructure:"ndk_home"`
		APILevel          int      `mapstructure:"api_level"`
		PageSize          int      `mapstructure:"page_size"`
		Profile           Profile  `mapstructure:"profile"`
		ExtraLinkArgs     []string `mapstructure:"extra_link_args"`
		UI                UIConfig `mapstructure:"ui"`
	}
)

// DefaultConfig returns the built-in defaults: the arm64-v8a target with
// the android+vulkan feature pair, default features suppressed, and the
// 16 KiB page-size alignment.
func DefaultConfig() *Config {
	return &Config{
		OutputRoot:        "android/app/src/main/jniLibs",
		DefaultTarget:     "arm64-v8a",
		Features:          []string{"android", "vulkan"},
		NoDefaultFeatures: true,
		APILevel:          24,
		PageSize:          16384,
		Profile:           ProfileRelease,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// TargetDir returns the cargo target directory cargo writes build output
// under when the crate does not override it.
func (c *Config) TargetDir(manifestDir string) string {
	return filepath.Join(manifestDir, "target")
}

// IsValid returns whether the Profile is one of the recognized values.
func (p Profile) IsValid() (bool, []error) {
	switch p {
	case ProfileRelease, ProfileDev:
		return true, nil
	}
	return false, []error{&InvalidProfileError{Value: p}}
}

// Dir returns the directory name cargo uses for this profile's output.
// The dev profile writes to "debug", not "dev".
func (p Profile) Dir() string {
	if p == ProfileDev {
		return "debug"
	}
	return string(p)
}

// String returns the profile string.
func (p Profile) String() string { return string(p) }

// IsValid returns whether the ColorScheme is one of the recognized values.
func (s ColorScheme) IsValid() (bool, []error) {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	}
	return false, []error{&InvalidColorSchemeError{Value: s}}
}

// ValidatePageSize checks that size is a power-of-two multiple of 4096.
// The loader only accepts power-of-two alignments, and nothing below the
// architecture's base page size is meaningful.
func ValidatePageSize(size int) error {
	if size < 4096 || size&(size-1) != 0 {
		return &InvalidPageSizeError{Value: size}
	}
	return nil
}

// Validate checks the whole Config for constraints the CUE schema cannot
// express (page-size power-of-two, profile enum after flag overrides).
func (c *Config) Validate() error {
	if valid, errs := c.Profile.IsValid(); !valid {
		return errs[0]
	}
	if valid, errs := c.UI.ColorScheme.IsValid(); !valid {
		return errs[0]
	}
	return ValidatePageSize(c.PageSize)
}

// Error implements the error interface for InvalidProfileError.
func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile %q (must be %q or %q)", e.Value, ProfileRelease, ProfileDev)
}

// Unwrap returns ErrInvalidProfile for errors.Is() compatibility.
func (e *InvalidProfileError) Unwrap() error { return ErrInvalidProfile }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (must be auto, dark, or light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidPageSizeError.
func (e *InvalidPageSizeError) Error() string {
	return fmt.Sprintf("invalid page size %d (must be a power-of-two multiple of 4096)", e.Value)
}

// Unwrap returns ErrInvalidPageSize for errors.Is() compatibility.
func (e *InvalidPageSizeError) Unwrap() error { return ErrInvalidPageSize }

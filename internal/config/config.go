// SPDX-License-Identifier: MPL-2.0

// Package config loads droidforge configuration from a CUE file validated
// against an embedded schema, merged over built-in defaults via Viper.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"droidforge/internal/issue"
	"droidforge/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "droidforge"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the droidforge configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load resolves the configuration: defaults, then the config file (explicit
// override path, the config dir, or a ./droidforge.cue in the working
// directory), then validation of constraints CUE cannot express.
func Load() (*Config, error) {
	cfg, _, err := loadResolved()
	return cfg, err
}

// LoadWithPath behaves like Load but also reports which file was used
// ("" when running on pure defaults).
func LoadWithPath() (*Config, string, error) {
	return loadResolved()
}

func loadResolved() (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output_root", defaults.OutputRoot)
	v.SetDefault("default_target", defaults.DefaultTarget)
	v.SetDefault("features", defaults.Features)
	v.SetDefault("no_default_features", defaults.NoDefaultFeatures)
	v.SetDefault("cargo_path", defaults.CargoPath)
	v.SetDefault("ndk_home", defaults.NdkHome)
	v.SetDefault("api_level", defaults.APILevel)
	v.SetDefault("page_size", defaults.PageSize)
	v.SetDefault("profile", string(defaults.Profile))
	v.SetDefault("extra_link_args", defaults.ExtraLinkArgs)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath := ""

	if configFilePathOverride != "" {
		if !fileExists(configFilePathOverride) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'droidforge config init' to create a default config").
				Wrap(fmt.Errorf("config file not found: %s", configFilePathOverride)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, configFilePathOverride); err != nil {
			return nil, "", wrapConfigLoadError(err, configFilePathOverride)
		}
		resolvedPath = configFilePathOverride
	} else {
		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, "", err
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		localCuePath := AppName + "." + ConfigFileExt

		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", wrapConfigLoadError(err, cuePath)
			}
			resolvedPath = cuePath
		case fileExists(localCuePath):
			if err := loadCUEIntoViper(v, localCuePath); err != nil {
				return nil, "", wrapConfigLoadError(err, localCuePath)
			}
			resolvedPath = localCuePath
		}
		// If no config file found, use defaults (no error)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Page sizes must be a power-of-two multiple of 4096").
			WithSuggestion("Profile must be \"release\" or \"dev\"").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func wrapConfigLoadError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'droidforge config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
//
// This uses manual CUE handling instead of cueutil.ParseAndDecode because
// config decodes to map[string]any for Viper merging, and uses
// Concrete(false) because all config fields are optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// droidforge configuration file\n\n")

	sb.WriteString(fmt.Sprintf("output_root: %q\n", cfg.OutputRoot))
	sb.WriteString(fmt.Sprintf("default_target: %q\n", cfg.DefaultTarget))

	if len(cfg.Features) > 0 {
		sb.WriteString("features: [")
		for i, f := range cfg.Features {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%q", f))
		}
		sb.WriteString("]\n")
	}
	sb.WriteString(fmt.Sprintf("no_default_features: %v\n", cfg.NoDefaultFeatures))

	if cfg.CargoPath != "" {
		sb.WriteString(fmt.Sprintf("cargo_path: %q\n", cfg.CargoPath))
	}
	if cfg.NdkHome != "" {
		sb.WriteString(fmt.Sprintf("ndk_home: %q\n", cfg.NdkHome))
	}
	sb.WriteString(fmt.Sprintf("api_level: %d\n", cfg.APILevel))
	sb.WriteString(fmt.Sprintf("page_size: %d\n", cfg.PageSize))
	sb.WriteString(fmt.Sprintf("profile: %q\n", cfg.Profile))

	if len(cfg.ExtraLinkArgs) > 0 {
		sb.WriteString("extra_link_args: [\n")
		for _, arg := range cfg.ExtraLinkArgs {
			sb.WriteString(fmt.Sprintf("\t%q,\n", arg))
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}

// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the slice of Cargo.toml droidforge cares about:
// the package identity, the declared feature set, and the library target.
// It exists so feature typos and missing cdylib targets fail before cargo
// is ever invoked, with errors that name the manifest instead of a cargo
// diagnostic three screens deep.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrManifestNotFound is the sentinel error wrapped by NotFoundError.
	ErrManifestNotFound = errors.New("crate manifest not found")
	// ErrManifestParse is the sentinel error wrapped by ParseError.
	ErrManifestParse = errors.New("crate manifest parse error")
	// ErrUnknownFeature is the sentinel error wrapped by UnknownFeatureError.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrNoSharedObjectTarget is returned when the crate declares no cdylib
	// crate-type and therefore cannot produce a shared object.
	ErrNoSharedObjectTarget = errors.New("no cdylib target")
)

type (
	// FeatureName is a crate-declared capability toggle (e.g. "android",
	// "vulkan"). Valid names are non-empty and contain only the characters
	// cargo accepts in feature names.
	FeatureName string

	// Manifest is the parsed Cargo.toml, restricted to the fields the
	// orchestrator consumes.
	Manifest struct {
		Package struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"package"`

		Lib struct {
			Name      string   `toml:"name"`
			CrateType []string `toml:"crate-type"`
		} `toml:"lib"`

		// Features maps declared feature names to the features/deps they enable.
		Features map[string][]string `toml:"features"`

		// Dependencies is kept raw: optional dependencies implicitly declare
		// a feature of the same name, so validation must see them.
		Dependencies map[string]any `toml:"dependencies"`

		// Path is the filesystem location the manifest was loaded from.
		Path string `toml:"-"`
	}

	// NotFoundError is returned when no Cargo.toml exists at the given path.
	NotFoundError struct {
		Path string
	}

	// ParseError is returned when Cargo.toml exists but cannot be decoded.
	ParseError struct {
		Path  string
		Cause error
	}

	// UnknownFeatureError is returned when a requested feature is not
	// declared by the crate. It wraps ErrUnknownFeature for errors.Is().
	UnknownFeatureError struct {
		Feature  FeatureName
		Declared []FeatureName
	}
)

// Load reads and decodes the Cargo.toml at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &ParseError{Path: path, Cause: err}
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	if strings.TrimSpace(m.Package.Name) == "" {
		return nil, &ParseError{Path: path, Cause: errors.New("missing package.name")}
	}
	m.Path = path
	return &m, nil
}

// ParseFeatureList splits a comma-delimited feature list into names,
// dropping empty segments. cargo itself also accepts space-delimited lists;
// both separators are honored here.
func ParseFeatureList(s string) []FeatureName {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	names := make([]FeatureName, 0, len(fields))
	for _, f := range fields {
		names = append(names, FeatureName(f))
	}
	return names
}

// String returns the feature name string.
func (f FeatureName) String() string { return string(f) }

// IsValid returns whether the FeatureName is syntactically acceptable.
// This does not check it against any manifest; see Manifest.ValidateFeatures.
func (f FeatureName) IsValid() (bool, []error) {
	if f == "" {
		return false, []error{fmt.Errorf("feature name must not be empty")}
	}
	for _, r := range f {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '+' || r == '.':
		default:
			return false, []error{fmt.Errorf("feature name %q contains invalid character %q", f, r)}
		}
	}
	return true, nil
}

// DeclaredFeatures returns every feature name the crate declares, explicit
// [features] entries plus implicit features from optional dependencies,
// sorted for stable output.
func (m *Manifest) DeclaredFeatures() []FeatureName {
	seen := make(map[FeatureName]bool, len(m.Features))
	for name := range m.Features {
		seen[FeatureName(name)] = true
	}
	for dep, spec := range m.Dependencies {
		if table, ok := spec.(map[string]any); ok {
			if optional, ok := table["optional"].(bool); ok && optional {
				seen[FeatureName(dep)] = true
			}
		}
	}

	features := make([]FeatureName, 0, len(seen))
	for name := range seen {
		features = append(features, name)
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })
	return features
}

// ValidateFeatures checks every requested feature against the crate's
// declared set. The first unknown name fails the whole invocation; cargo
// would reject it anyway, but this surfaces the error before any
// compilation work starts.
func (m *Manifest) ValidateFeatures(requested []FeatureName) error {
	declared := m.DeclaredFeatures()
	declaredSet := make(map[FeatureName]bool, len(declared))
	for _, f := range declared {
		declaredSet[f] = true
	}

	for _, f := range requested {
		if valid, errs := f.IsValid(); !valid {
			return errs[0]
		}
		if !declaredSet[f] {
			return &UnknownFeatureError{Feature: f, Declared: declared}
		}
	}
	return nil
}

// LibraryName returns the crate's library target name: lib.name when set,
// otherwise the package name with dashes mapped to underscores (cargo's own
// defaulting rule).
func (m *Manifest) LibraryName() string {
	if m.Lib.Name != "" {
		return m.Lib.Name
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_")
}

// HasCdylib reports whether the library target can be built as a shared
// object. An absent crate-type list defaults to rlib only.
func (m *Manifest) HasCdylib() bool {
	for _, ct := range m.Lib.CrateType {
		if ct == "cdylib" {
			return true
		}
	}
	return false
}

// SharedObjectFile returns the file name of the shared library the build
// produces (lib<name>.so). Fails when the crate declares no cdylib target.
func (m *Manifest) SharedObjectFile() (string, error) {
	if !m.HasCdylib() {
		return "", fmt.Errorf("%w: crate %q does not list \"cdylib\" in lib.crate-type", ErrNoSharedObjectTarget, m.Package.Name)
	}
	return "lib" + m.LibraryName() + ".so", nil
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("crate manifest not found: %s", e.Path)
}

// Unwrap returns ErrManifestNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrManifestNotFound }

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse crate manifest %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrManifestParse for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrManifestParse }

// Error implements the error interface for UnknownFeatureError.
func (e *UnknownFeatureError) Error() string {
	if len(e.Declared) == 0 {
		return fmt.Sprintf("unknown feature %q (the crate declares no features)", e.Feature)
	}
	names := make([]string, len(e.Declared))
	for i, f := range e.Declared {
		names[i] = string(f)
	}
	return fmt.Sprintf("unknown feature %q (declared: %s)", e.Feature, strings.Join(names, ", "))
}

// Unwrap returns ErrUnknownFeature for errors.Is() compatibility.
func (e *UnknownFeatureError) Unwrap() error { return ErrUnknownFeature }

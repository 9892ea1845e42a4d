// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.DefaultTarget != "arm64-v8a" {
		t.Errorf("DefaultTarget = %q, want %q", cfg.DefaultTarget, "arm64-v8a")
	}
	if len(cfg.Features) != 2 || cfg.Features[0] != "android" || cfg.Features[1] != "vulkan" {
		t.Errorf("Features = %v, want [android vulkan]", cfg.Features)
	}
	if !cfg.NoDefaultFeatures {
		t.Error("NoDefaultFeatures = false, want true")
	}
	if cfg.PageSize != 16384 {
		t.Errorf("PageSize = %d, want 16384", cfg.PageSize)
	}
	if cfg.Profile != ProfileRelease {
		t.Errorf("Profile = %q, want release", cfg.Profile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	cfg, path, err := LoadWithPath()
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty (defaults)", path)
	}
	if cfg.OutputRoot != "android/app/src/main/jniLibs" {
		t.Errorf("OutputRoot = %q", cfg.OutputRoot)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	content := `
output_root: "/tmp/jni-out"
page_size: 65536
features: ["android"]
`
	cfgPath := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, path, err := LoadWithPath()
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path != cfgPath {
		t.Errorf("resolved path = %q, want %q", path, cfgPath)
	}
	if cfg.OutputRoot != "/tmp/jni-out" {
		t.Errorf("OutputRoot = %q", cfg.OutputRoot)
	}
	if cfg.PageSize != 65536 {
		t.Errorf("PageSize = %d, want 65536", cfg.PageSize)
	}
	// untouched fields keep defaults
	if cfg.Profile != ProfileRelease {
		t.Errorf("Profile = %q, want default release", cfg.Profile)
	}
}

func TestLoad_ExplicitPathOverride(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	cfgPath := filepath.Join(t.TempDir(), "my.cue")
	if err := os.WriteFile(cfgPath, []byte(`default_target: "x86_64"`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	SetConfigFilePathOverride(cfgPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultTarget != "x86_64" {
		t.Errorf("DefaultTarget = %q, want x86_64", cfg.DefaultTarget)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "absent.cue"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail for a missing explicit config file")
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	// default_target must be one of the ABI selectors
	content := `default_target: "mips"`
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a selector outside the schema enum")
	}
}

func TestLoad_PageSizeNotPowerOfTwo(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	content := `page_size: 12288`
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should reject a non-power-of-two page size")
	}
	if !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("error should wrap ErrInvalidPageSize, got %v", err)
	}
}

func TestValidatePageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"4 KiB", 4096, false},
		{"16 KiB", 16384, false},
		{"64 KiB", 65536, false},
		{"zero", 0, true},
		{"sub-page", 2048, true},
		{"not a power of two", 12288, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePageSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePageSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestProfile_Dir(t *testing.T) {
	t.Parallel()

	if got := ProfileRelease.Dir(); got != "release" {
		t.Errorf("ProfileRelease.Dir() = %q", got)
	}
	// cargo writes the dev profile to target/<triple>/debug
	if got := ProfileDev.Dir(); got != "debug" {
		t.Errorf("ProfileDev.Dir() = %q, want %q", got, "debug")
	}
}

func TestGenerateCUE_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	want := DefaultConfig()
	want.OutputRoot = "/custom/out"
	want.ExtraLinkArgs = []string{"-C link-arg=-Wl,--build-id=sha1"}

	content := GenerateCUE(want)
	if !strings.Contains(content, `output_root: "/custom/out"`) {
		t.Errorf("GenerateCUE() missing output_root, got:\n%s", content)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}
	if got.OutputRoot != want.OutputRoot {
		t.Errorf("OutputRoot = %q, want %q", got.OutputRoot, want.OutputRoot)
	}
	if len(got.ExtraLinkArgs) != 1 || got.ExtraLinkArgs[0] != want.ExtraLinkArgs[0] {
		t.Errorf("ExtraLinkArgs = %v, want %v", got.ExtraLinkArgs, want.ExtraLinkArgs)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	cfgPath := filepath.Join(dir, "config.cue")
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// second call is a no-op, not an overwrite
	if err := os.WriteFile(cfgPath, []byte(`page_size: 4096`), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() second call error = %v", err)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if !strings.Contains(string(data), "page_size: 4096") {
		t.Error("CreateDefaultConfig() must not overwrite an existing file")
	}
}

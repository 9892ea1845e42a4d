// SPDX-License-Identifier: MPL-2.0

package ndk

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestPageSizeLinkerFlags(t *testing.T) {
	t.Parallel()

	flags := PageSizeLinkerFlags(DefaultPageSize)

	want := []string{
		"-C link-arg=-Wl,-z,max-page-size=16384",
		"-C link-arg=-Wl,-z,common-page-size=16384",
	}
	if len(flags) != len(want) {
		t.Fatalf("PageSizeLinkerFlags() returned %d flags, want %d", len(flags), len(want))
	}
	for i := range want {
		if flags[i] != want[i] {
			t.Errorf("flag[%d] = %q, want %q", i, flags[i], want[i])
		}
	}
}

func TestPageSizeLinkerFlags_BothKnobsSameValue(t *testing.T) {
	t.Parallel()

	flags := PageSizeLinkerFlags(4096)
	for _, f := range flags {
		if !strings.HasSuffix(f, "=4096") {
			t.Errorf("flag %q does not carry the requested page size", f)
		}
	}
}

func TestAPILevel_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   APILevel
		wantErr bool
	}{
		{"default level", DefaultAPILevel, false},
		{"floor level", APILevel(21), false},
		{"current level", APILevel(35), false},
		{"below 64-bit floor", APILevel(19), true},
		{"zero", APILevel(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.level.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAPILevel) {
				t.Errorf("error should wrap ErrInvalidAPILevel, got %v", err)
			}
		})
	}
}

func TestFindToolchain_Explicit(t *testing.T) {
	dir := t.TempDir()

	tc, err := FindToolchain(dir)
	if err != nil {
		t.Fatalf("FindToolchain(%q) error = %v", dir, err)
	}
	if tc.Root != dir {
		t.Errorf("Root = %q, want %q", tc.Root, dir)
	}
}

func TestFindToolchain_EnvFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ANDROID_NDK_HOME", dir)
	t.Setenv("ANDROID_NDK_ROOT", "")

	tc, err := FindToolchain("")
	if err != nil {
		t.Fatalf("FindToolchain() error = %v", err)
	}
	if tc.Root != dir {
		t.Errorf("Root = %q, want %q", tc.Root, dir)
	}
}

func TestFindToolchain_NotFound(t *testing.T) {
	t.Setenv("ANDROID_NDK_HOME", "")
	t.Setenv("ANDROID_NDK_ROOT", "")

	_, err := FindToolchain("")
	if err == nil {
		t.Fatal("FindToolchain() should fail with no candidates")
	}
	if !errors.Is(err, ErrNdkNotFound) {
		t.Errorf("error should wrap ErrNdkNotFound, got %v", err)
	}
}

func TestFindToolchain_MissingExplicitReportsSearched(t *testing.T) {
	t.Setenv("ANDROID_NDK_HOME", "")
	t.Setenv("ANDROID_NDK_ROOT", "")

	missing := filepath.Join(t.TempDir(), "no-such-ndk")
	_, err := FindToolchain(missing)
	if err == nil {
		t.Fatal("FindToolchain() should fail for a missing explicit path")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error should be a *NotFoundError, got %T", err)
	}
	if len(nf.Searched) != 1 || nf.Searched[0] != missing {
		t.Errorf("Searched = %v, want [%s]", nf.Searched, missing)
	}
}

func TestToolchain_Linker(t *testing.T) {
	t.Parallel()

	tc := &Toolchain{Root: "/opt/ndk"}
	got := tc.Linker(ABIArm64, DefaultAPILevel)

	wantSuffix := "aarch64-linux-android24-clang"
	if runtime.GOOS == "windows" {
		wantSuffix += ".cmd"
	}
	if filepath.Base(got) != wantSuffix {
		t.Errorf("Linker() base = %q, want %q", filepath.Base(got), wantSuffix)
	}
	if !strings.Contains(got, filepath.Join("toolchains", "llvm", "prebuilt")) {
		t.Errorf("Linker() = %q, should point into the llvm prebuilt tree", got)
	}
}

func TestToolchain_Linker_ArmUsesClangTriple(t *testing.T) {
	t.Parallel()

	tc := &Toolchain{Root: "/opt/ndk"}
	got := tc.Linker(ABIArm, APILevel(21))
	if !strings.Contains(filepath.Base(got), "armv7a-linux-androideabi21-clang") {
		t.Errorf("Linker() = %q, want the armv7a clang driver name", got)
	}
}

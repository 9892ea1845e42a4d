// SPDX-License-Identifier: MPL-2.0

package ndk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNdkNotFound is the sentinel error wrapped by NotFoundError.
var ErrNdkNotFound = errors.New("android ndk not found")

// ErrInvalidAPILevel is the sentinel error wrapped by InvalidAPILevelError.
var ErrInvalidAPILevel = errors.New("invalid api level")

// DefaultAPILevel is the Android API level the linker targets when the
// configuration does not override it. Level 24 is the floor for the Vulkan
// loader in the platform image.
const DefaultAPILevel APILevel = 24

// minAPILevel is the oldest level the 64-bit toolchains ship libraries for.
const minAPILevel APILevel = 21

type (
	// APILevel is an Android platform API level (e.g. 24 for Android 7.0).
	APILevel int

	// InvalidAPILevelError is returned when an APILevel is below the 64-bit
	// toolchain floor. It wraps ErrInvalidAPILevel for errors.Is().
	InvalidAPILevelError struct {
		Value APILevel
	}

	// Toolchain is a located NDK installation. It resolves the per-target
	// clang driver used as the cargo linker.
	Toolchain struct {
		// Root is the NDK installation directory.
		Root string
	}

	// NotFoundError is returned when no NDK installation could be located.
	// It wraps ErrNdkNotFound for errors.Is() compatibility.
	NotFoundError struct {
		// Searched lists the locations that were checked, in order.
		Searched []string
	}
)

// Validate returns an error if the APILevel is below the 64-bit floor.
func (l APILevel) Validate() error {
	if l < minAPILevel {
		return &InvalidAPILevelError{Value: l}
	}
	return nil
}

// String returns the decimal representation of the APILevel.
func (l APILevel) String() string { return fmt.Sprintf("%d", int(l)) }

// Error implements the error interface for InvalidAPILevelError.
func (e *InvalidAPILevelError) Error() string {
	return fmt.Sprintf("invalid api level %d (64-bit Android targets need %d or newer)", e.Value, minAPILevel)
}

// Unwrap returns ErrInvalidAPILevel for errors.Is() compatibility.
func (e *InvalidAPILevelError) Unwrap() error { return ErrInvalidAPILevel }

// FindToolchain locates an NDK installation. Precedence:
//
//  1. the explicit path (config ndk_home), when non-empty
//  2. ANDROID_NDK_HOME
//  3. ANDROID_NDK_ROOT
//
// The returned Toolchain is only guaranteed to exist as a directory; linker
// binaries are resolved lazily so a broken installation surfaces as a link
// failure with the real path in the diagnostic.
func FindToolchain(explicit string) (*Toolchain, error) {
	var searched []string

	candidates := []string{explicit, os.Getenv("ANDROID_NDK_HOME"), os.Getenv("ANDROID_NDK_ROOT")}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		searched = append(searched, dir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return &Toolchain{Root: dir}, nil
		}
	}

	return nil, &NotFoundError{Searched: searched}
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return "android ndk not found: neither ANDROID_NDK_HOME nor ANDROID_NDK_ROOT is set"
	}
	return fmt.Sprintf("android ndk not found (searched: %v)", e.Searched)
}

// Unwrap returns ErrNdkNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNdkNotFound }

// HostTag returns the NDK prebuilt directory name for the host platform.
// The NDK ships a single darwin-x86_64 tree that also serves Apple Silicon
// through Rosetta, so darwin always maps there.
func HostTag() string {
	switch runtime.GOOS {
	case "darwin":
		return "darwin-x86_64"
	case "windows":
		return "windows-x86_64"
	default:
		return "linux-x86_64"
	}
}

// BinDir returns the directory holding the toolchain's clang drivers and
// binutils for the host platform.
func (t *Toolchain) BinDir() string {
	return filepath.Join(t.Root, "toolchains", "llvm", "prebuilt", HostTag(), "bin")
}

// Linker returns the path of the clang driver cargo must use as the linker
// for the given target and API level, e.g.
// <root>/toolchains/llvm/prebuilt/linux-x86_64/bin/aarch64-linux-android24-clang.
func (t *Toolchain) Linker(abi ABI, api APILevel) string {
	name := fmt.Sprintf("%s%d-clang", abi.ClangTriple(), int(api))
	if runtime.GOOS == "windows" {
		name += ".cmd"
	}
	return filepath.Join(t.BinDir(), name)
}

// Archiver returns the path of the toolchain's llvm-ar.
func (t *Toolchain) Archiver() string {
	name := "llvm-ar"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(t.BinDir(), name)
}

// SPDX-License-Identifier: MPL-2.0

// Package ndk models Android build targets and the NDK toolchain pieces
// droidforge needs to link a Rust cdylib for them: ABI selectors, Rust
// target triples, per-target clang linkers, and the page-size linker flags
// newer Android releases require.
package ndk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedTarget is the sentinel error wrapped by UnsupportedTargetError.
var ErrUnsupportedTarget = errors.New("unsupported target")

const (
	// ABIArm64 is the 64-bit ARM ABI (the default and primary target).
	ABIArm64 ABI = "arm64-v8a"
	// ABIArm is the 32-bit ARM ABI.
	ABIArm ABI = "armeabi-v7a"
	// ABIX86_64 is the 64-bit x86 ABI (emulators).
	ABIX86_64 ABI = "x86_64"
	// ABIX86 is the 32-bit x86 ABI (legacy emulators).
	ABIX86 ABI = "x86"
)

type (
	// ABI identifies an Android application binary interface. The ABI name is
	// also the name of the jniLibs subdirectory the artifact is published to.
	ABI string

	// UnsupportedTargetError is returned when an ABI value is not one the
	// toolchain supports. It wraps ErrUnsupportedTarget for errors.Is().
	UnsupportedTargetError struct {
		Value ABI
	}

	// target carries the toolchain identity of one ABI. The rust triple names
	// the cargo --target; the clang triple names the NDK linker binary, which
	// differs from the rust triple for 32-bit ARM.
	target struct {
		rustTriple  string
		clangTriple string
	}
)

var targets = map[ABI]target{
	ABIArm64:  {rustTriple: "aarch64-linux-android", clangTriple: "aarch64-linux-android"},
	ABIArm:    {rustTriple: "armv7-linux-androideabi", clangTriple: "armv7a-linux-androideabi"},
	ABIX86_64: {rustTriple: "x86_64-linux-android", clangTriple: "x86_64-linux-android"},
	ABIX86:    {rustTriple: "i686-linux-android", clangTriple: "i686-linux-android"},
}

// SupportedABIs returns all recognized ABI selectors in stable order.
func SupportedABIs() []ABI {
	return []ABI{ABIArm64, ABIArm, ABIX86_64, ABIX86}
}

// ParseABI validates a selector string and returns the corresponding ABI.
// Unknown selectors fail with an UnsupportedTargetError.
func ParseABI(s string) (ABI, error) {
	abi := ABI(s)
	if valid, errs := abi.IsValid(); !valid {
		return "", errs[0]
	}
	return abi, nil
}

// String returns the ABI selector string.
func (a ABI) String() string { return string(a) }

// IsValid returns whether the ABI is one the toolchain supports.
func (a ABI) IsValid() (bool, []error) {
	if _, ok := targets[a]; !ok {
		return false, []error{&UnsupportedTargetError{Value: a}}
	}
	return true, nil
}

// RustTriple returns the Rust target triple passed to cargo --target.
func (a ABI) RustTriple() string { return targets[a].rustTriple }

// ClangTriple returns the triple prefix of the NDK clang linker binary.
func (a ABI) ClangTriple() string { return targets[a].clangTriple }

// LinkerEnvVar returns the cargo environment variable that selects the
// linker for this target (CARGO_TARGET_<TRIPLE>_LINKER with the triple
// uppercased and dashes replaced by underscores).
func (a ABI) LinkerEnvVar() string {
	triple := strings.ToUpper(strings.ReplaceAll(a.RustTriple(), "-", "_"))
	return "CARGO_TARGET_" + triple + "_LINKER"
}

// Error implements the error interface for UnsupportedTargetError.
func (e *UnsupportedTargetError) Error() string {
	supported := make([]string, 0, len(targets))
	for _, abi := range SupportedABIs() {
		supported = append(supported, string(abi))
	}
	return fmt.Sprintf("unsupported target %q (supported: %s)", e.Value, strings.Join(supported, ", "))
}

// Unwrap returns ErrUnsupportedTarget for errors.Is() compatibility.
func (e *UnsupportedTargetError) Unwrap() error { return ErrUnsupportedTarget }

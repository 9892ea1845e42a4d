// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"fmt"
	"strings"

	"droidforge/pkg/types"
)

var (
	// ErrCargoNotFound is the sentinel error wrapped by CargoNotFoundError.
	ErrCargoNotFound = errors.New("cargo not found")
	// ErrLinkFailed is the sentinel error wrapped by LinkError.
	ErrLinkFailed = errors.New("linking failed")
	// ErrTargetNotInstalled is the sentinel error wrapped by
	// TargetNotInstalledError.
	ErrTargetNotInstalled = errors.New("rust target not installed")
	// ErrToolchainInvocation is the sentinel error wrapped by ToolchainInvocationError.
	ErrToolchainInvocation = errors.New("toolchain invocation failed")
)

type (
	// CargoNotFoundError is returned when no cargo binary could be resolved,
	// either from the configured path or from PATH.
	CargoNotFoundError struct {
		// Path is the explicitly configured cargo path, when there was one.
		Path string
	}

	// LinkError is returned when cargo compiled the crate but the final link
	// step failed. Diagnostic holds the most relevant line of cargo's stderr;
	// the full output is preserved on the Result.
	LinkError struct {
		ExitCode   types.ExitCode
		Diagnostic string
	}

	// TargetNotInstalledError is returned when rustc has no standard library
	// for the requested triple (the rustup target was never added).
	TargetNotInstalledError struct {
		Triple string
	}

	// ToolchainInvocationError is returned when cargo could not be started, or when it
	// failed in a way no more specific classification matched.
	ToolchainInvocationError struct {
		ExitCode   types.ExitCode
		Diagnostic string
		Cause      error
	}
)

// Error implements the error interface for CargoNotFoundError.
func (e *CargoNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cargo not found at configured path %s", e.Path)
	}
	return "cargo not found in PATH"
}

// Unwrap returns ErrCargoNotFound for errors.Is() compatibility.
func (e *CargoNotFoundError) Unwrap() error { return ErrCargoNotFound }

// Error implements the error interface for LinkError.
func (e *LinkError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("linking failed (cargo exited with %s)", e.ExitCode)
	}
	return fmt.Sprintf("linking failed (cargo exited with %s): %s", e.ExitCode, e.Diagnostic)
}

// Unwrap returns ErrLinkFailed for errors.Is() compatibility.
func (e *LinkError) Unwrap() error { return ErrLinkFailed }

// Error implements the error interface for TargetNotInstalledError.
func (e *TargetNotInstalledError) Error() string {
	return fmt.Sprintf("rust target %s is not installed (run: rustup target add %s)", e.Triple, e.Triple)
}

// Unwrap returns ErrTargetNotInstalled for errors.Is() compatibility.
func (e *TargetNotInstalledError) Unwrap() error { return ErrTargetNotInstalled }

// Error implements the error interface for ToolchainInvocationError.
func (e *ToolchainInvocationError) Error() string {
	var sb strings.Builder
	sb.WriteString("toolchain invocation failed")
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	} else {
		fmt.Fprintf(&sb, " (cargo exited with %s)", e.ExitCode)
	}
	if e.Diagnostic != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Diagnostic)
	}
	return sb.String()
}

// Unwrap returns ErrToolchainInvocation for errors.Is() compatibility.
func (e *ToolchainInvocationError) Unwrap() error { return ErrToolchainInvocation }

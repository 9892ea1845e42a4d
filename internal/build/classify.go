// SPDX-License-Identifier: MPL-2.0

package build

import (
	"strings"

	"droidforge/pkg/types"
)

// linkMarkers are stderr substrings that identify a failure in the final
// link step rather than in compilation.
var linkMarkers = []string{
	"error: linking with",
	"linker command failed",
	"ld.lld: error",
	"undefined symbol",
}

// missingTargetMarkers identify a rustc without a standard library for the
// requested triple. E0463 is "can't find crate", which for a cross build
// almost always means the rustup target was never added.
var missingTargetMarkers = []string{
	"error[E0463]",
	"can't find crate for `core`",
	"can't find crate for `std`",
	"may not be installed",
}

// classifyFailure turns a non-zero cargo exit into the most specific error
// the captured diagnostics support. Unrecognized failures come back as an
// ToolchainInvocationError carrying the raw diagnostic line.
func classifyFailure(code types.ExitCode, diagnostics, triple string) error {
	for _, marker := range missingTargetMarkers {
		if strings.Contains(diagnostics, marker) {
			return &TargetNotInstalledError{Triple: triple}
		}
	}
	for _, marker := range linkMarkers {
		if strings.Contains(diagnostics, marker) {
			return &LinkError{ExitCode: code, Diagnostic: firstErrorLine(diagnostics)}
		}
	}
	return &ToolchainInvocationError{ExitCode: code, Diagnostic: firstErrorLine(diagnostics)}
}

// firstErrorLine extracts the first line of the diagnostics that cargo or
// rustc flagged as an error, falling back to the last non-empty line.
func firstErrorLine(diagnostics string) string {
	var lastNonEmpty string
	for _, line := range strings.Split(diagnostics, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "error") {
			return trimmed
		}
		lastNonEmpty = trimmed
	}
	return lastNonEmpty
}

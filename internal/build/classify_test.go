// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"testing"
)

func TestClassifyFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		diagnostics string
		want        error
	}{
		{
			"linker failure",
			"   Compiling soft-renderer v0.4.0\nerror: linking with `aarch64-linux-android24-clang` failed: exit status: 1",
			ErrLinkFailed,
		},
		{
			"undefined symbol",
			"ld.lld: error: undefined symbol: vkCreateInstance",
			ErrLinkFailed,
		},
		{
			"missing std for triple",
			"error[E0463]: can't find crate for `std`\nnote: the `aarch64-linux-android` target may not be installed",
			ErrTargetNotInstalled,
		},
		{
			"ordinary compile error",
			"error[E0425]: cannot find value `frame` in this scope",
			ErrToolchainInvocation,
		},
		{
			"empty diagnostics",
			"",
			ErrToolchainInvocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classifyFailure(101, tt.diagnostics, "aarch64-linux-android")
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyFailure() = %v, want wrap of %v", err, tt.want)
			}
		})
	}
}

func TestFirstErrorLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		diagnostics string
		want        string
	}{
		{"picks the error line", "   Compiling foo\nerror: linking failed\nnote: details", "error: linking failed"},
		{"falls back to last line", "   Compiling foo\nwarning: something\n", "warning: something"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := firstErrorLine(tt.diagnostics); got != tt.want {
				t.Errorf("firstErrorLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

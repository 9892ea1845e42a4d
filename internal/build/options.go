// SPDX-License-Identifier: MPL-2.0

// Package build orchestrates a single cross-compilation run: it validates
// the request against the crate manifest, composes the cargo invocation
// (arguments, linker selection, page-size link flags), executes cargo, and
// publishes the resulting shared object into the ABI-namespaced output
// layout.
package build

import (
	"droidforge/internal/config"
	"droidforge/internal/manifest"
	"droidforge/internal/ndk"
	"droidforge/pkg/types"
)

// Options describes one build request, fully resolved from configuration
// and command-line flags before the orchestrator sees it.
type Options struct {
	// ManifestPath is the path of the crate's Cargo.toml.
	ManifestPath string

	// Target selects the Android ABI to compile for.
	Target ndk.ABI

	// Features is the exact feature set to enable.
	Features []manifest.FeatureName

	// NoDefaultFeatures disables the crate's default feature set so that
	// Features alone decides what is compiled in.
	NoDefaultFeatures bool

	// OutputRoot is the directory the artifact is published under, in an
	// ABI-named subdirectory.
	OutputRoot string

	// Profile selects the cargo build profile.
	Profile config.Profile

	// PageSize is the load-segment alignment the shared object is linked
	// with, in bytes.
	PageSize int

	// APILevel is the Android platform level the NDK linker targets.
	APILevel ndk.APILevel

	// ExtraLinkArgs are additional raw linker arguments, each forwarded to
	// rustc as a -C link-arg after the page-size pair.
	ExtraLinkArgs []string

	// CargoPath overrides PATH resolution of the cargo binary when set.
	CargoPath string

	// NdkHome overrides the environment-based NDK search when set.
	NdkHome string

	// Verify re-opens the built shared object and checks its load-segment
	// alignment against PageSize before publishing.
	Verify bool
}

// Validate checks every field that can be judged without touching the
// filesystem. The first violation fails the request.
func (o *Options) Validate() error {
	if valid, errs := types.FilesystemPath(o.ManifestPath).IsValid(); !valid {
		return errs[0]
	}
	if valid, errs := o.Target.IsValid(); !valid {
		return errs[0]
	}
	if valid, errs := o.Profile.IsValid(); !valid {
		return errs[0]
	}
	if err := config.ValidatePageSize(o.PageSize); err != nil {
		return err
	}
	if err := o.APILevel.Validate(); err != nil {
		return err
	}
	if valid, errs := types.FilesystemPath(o.OutputRoot).IsValid(); !valid {
		return errs[0]
	}
	for _, f := range o.Features {
		if valid, errs := f.IsValid(); !valid {
			return errs[0]
		}
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package build

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"droidforge/internal/manifest"
	"droidforge/internal/ndk"
)

type (
	// Invocation is a fully composed cargo command: program, arguments, the
	// environment entries layered on top of the inherited environment, and
	// the working directory.
	Invocation struct {
		Program string
		Args    []string
		// Env holds the entries appended after the inherited environment.
		// Later entries win, so these override any inherited value.
		Env []string
		Dir string
	}

	// Plan is everything the orchestrator resolved for one build request:
	// the cargo invocation plus where the artifact will appear and what it
	// will be called. A Plan is inert; rendering it is what --dry-run does.
	Plan struct {
		Invocation Invocation
		Manifest   *manifest.Manifest
		Toolchain  *ndk.Toolchain

		// SharedObject is the file name cargo will produce (lib<name>.so).
		SharedObject string

		// TargetDir is the crate's cargo target directory; the shared object
		// is collected from <TargetDir>/<triple>/<profile dir> after a
		// successful run.
		TargetDir string
	}
)

// CommandLine returns the program and arguments as one slice, for display.
func (inv *Invocation) CommandLine() []string {
	return append([]string{inv.Program}, inv.Args...)
}

// Plan resolves a build request into an executable Invocation without
// running anything: it validates the options, loads and checks the crate
// manifest, resolves cargo and the NDK, and composes the argument list and
// environment. Every pre-flight failure the orchestrator can detect is
// detected here.
func (o *Orchestrator) Plan(opts Options) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	if err := m.ValidateFeatures(opts.Features); err != nil {
		return nil, err
	}
	soFile, err := m.SharedObjectFile()
	if err != nil {
		return nil, err
	}

	cargo, err := resolveCargo(opts.CargoPath)
	if err != nil {
		return nil, err
	}

	tc, err := ndk.FindToolchain(opts.NdkHome)
	if err != nil {
		return nil, err
	}

	manifestDir := filepath.Dir(opts.ManifestPath)
	triple := opts.Target.RustTriple()

	args := []string{"build", "--lib", "--target", triple}
	if opts.Profile.Dir() == "release" {
		args = append(args, "--release")
	}
	if opts.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if len(opts.Features) > 0 {
		args = append(args, "--features", joinFeatures(opts.Features))
	}
	args = append(args, "--manifest-path", opts.ManifestPath)

	return &Plan{
		Invocation: Invocation{
			Program: cargo,
			Args:    args,
			Env:     o.composeEnv(opts, tc),
			Dir:     manifestDir,
		},
		Manifest:     m,
		Toolchain:    tc,
		SharedObject: soFile,
		TargetDir:    filepath.Join(manifestDir, "target"),
	}, nil
}

// composeEnv builds the environment entries layered onto the child process:
// the linker selection for the target triple and RUSTFLAGS carrying the
// page-size alignment pair plus any extra link arguments. Inherited
// RUSTFLAGS are preserved in front so caller-supplied codegen flags
// survive; the alignment pair is appended and therefore wins.
func (o *Orchestrator) composeEnv(opts Options, tc *ndk.Toolchain) []string {
	flags := ndk.PageSizeLinkerFlags(opts.PageSize)
	for _, arg := range opts.ExtraLinkArgs {
		flags = append(flags, "-C link-arg="+arg)
	}

	rustflags := strings.TrimSpace(o.inheritedEnv("RUSTFLAGS") + " " + strings.Join(flags, " "))

	return []string{
		"RUSTFLAGS=" + rustflags,
		opts.Target.LinkerEnvVar() + "=" + tc.Linker(opts.Target, opts.APILevel),
		"TARGET_AR=" + tc.Archiver(),
	}
}

// inheritedEnv returns the value of key in the orchestrator's base
// environment, or "" when unset.
func (o *Orchestrator) inheritedEnv(key string) string {
	prefix := key + "="
	env := o.environ()
	// Last occurrence wins, matching what the child process would see.
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return env[i][len(prefix):]
		}
	}
	return ""
}

// resolveCargo locates the cargo binary. An explicit path is taken as-is
// after an existence check; otherwise PATH decides.
func resolveCargo(explicit string) (string, error) {
	if explicit != "" {
		if info, err := os.Stat(explicit); err != nil || info.IsDir() {
			return "", &CargoNotFoundError{Path: explicit}
		}
		return explicit, nil
	}
	path, err := exec.LookPath("cargo")
	if err != nil {
		return "", &CargoNotFoundError{}
	}
	return path, nil
}

func joinFeatures(features []manifest.FeatureName) string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

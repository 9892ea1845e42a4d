// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"droidforge/internal/artifact"
	"droidforge/internal/build"
	"droidforge/internal/config"
	"droidforge/internal/issue"
	"droidforge/internal/manifest"
	"droidforge/internal/ndk"
	"droidforge/pkg/types"
)

// usageExitCode is returned for request problems detected before cargo
// runs: bad flags, unknown features, unsupported targets, missing tools.
const usageExitCode types.ExitCode = 2

var buildFlags struct {
	target            string
	out               string
	features          []string
	noDefaultFeatures bool
	manifestPath      string
	profile           string
	apiLevel          int
	pageSize          int
	linkArgs          []string
	cargoPath         string
	ndkHome           string
	dryRun            bool
	verify            bool
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Cross-compile the crate's library target for an Android ABI",
	Long: `Cross-compile the crate's library target into a shared object for an
Android ABI and place it in the jniLibs layout.

The build always links with 16 KiB page-size alignment (configurable via
page_size) so the artifact loads on Android 15 devices with 16 KiB pages.
Default features are suppressed unless --default-features is given, so the
--features list alone decides what is compiled in.`,
	Example: `  droidforge build
  droidforge build --target arm64-v8a --features android,vulkan
  droidforge build --out android/app/src/main/jniLibs --verify
  droidforge build --dry-run`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	registerBuildFlags(buildCmd.Flags())
}

// registerBuildFlags binds the build flag set. Registration also resets the
// backing values to their defaults.
func registerBuildFlags(f *pflag.FlagSet) {
	f.StringVarP(&buildFlags.target, "target", "t", "", "Android ABI to build for (default from config: arm64-v8a)")
	f.StringVarP(&buildFlags.out, "out", "o", "", "output root directory (artifact lands in <out>/<abi>/)")
	f.StringSliceVar(&buildFlags.features, "features", nil, "crate features to enable (comma-separated, repeatable)")
	f.BoolVar(&buildFlags.noDefaultFeatures, "no-default-features", true, "disable the crate's default feature set")
	f.StringVar(&buildFlags.manifestPath, "manifest", "Cargo.toml", "path of the crate manifest")
	f.StringVar(&buildFlags.profile, "profile", "", "cargo profile: release or dev (default from config: release)")
	f.IntVar(&buildFlags.apiLevel, "api-level", 0, "Android API level the NDK linker targets (default from config: 24)")
	f.IntVar(&buildFlags.pageSize, "page-size", 0, "load-segment alignment in bytes (default from config: 16384)")
	f.StringArrayVar(&buildFlags.linkArgs, "link-arg", nil, "extra linker argument (repeatable)")
	f.StringVar(&buildFlags.cargoPath, "cargo", "", "cargo binary to invoke (default: from PATH)")
	f.StringVar(&buildFlags.ndkHome, "ndk-home", "", "NDK installation (default: ANDROID_NDK_HOME, then ANDROID_NDK_ROOT)")
	f.BoolVar(&buildFlags.dryRun, "dry-run", false, "show the cargo invocation without executing it")
	f.BoolVar(&buildFlags.verify, "verify", false, "check the artifact's load-segment alignment before publishing")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	opts := resolveBuildOptions(cmd, cfg)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "droidforge",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	orchestrator := build.New(logger)

	if buildFlags.dryRun {
		plan, err := orchestrator.Plan(opts)
		if err != nil {
			return buildFailure(err, usageExitCode)
		}
		renderDryRun(os.Stdout, plan, opts)
		return nil
	}

	result, err := orchestrator.Run(cmd.Context(), opts)
	if err != nil {
		code := usageExitCode
		if result != nil && !result.ExitCode.IsSuccess() {
			code = result.ExitCode
		} else if errors.Is(err, artifact.ErrVerifyFailed) || errors.Is(err, artifact.ErrOutputPath) || errors.Is(err, artifact.ErrArtifactNotFound) {
			code = 1
		}
		return buildFailure(err, code)
	}

	fmt.Fprintf(os.Stdout, "%s Built %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(result.ArtifactPath))
	return nil
}

// resolveBuildOptions merges the build flags over the loaded configuration.
// A flag the user set always wins; otherwise the config value (which itself
// defaults sensibly) applies.
func resolveBuildOptions(cmd *cobra.Command, cfg *config.Config) build.Options {
	flagSet := cmd.Flags().Changed

	target := cfg.DefaultTarget
	if flagSet("target") {
		target = buildFlags.target
	}

	featureStrings := cfg.Features
	if flagSet("features") {
		featureStrings = buildFlags.features
	}
	var features []manifest.FeatureName
	for _, s := range featureStrings {
		features = append(features, manifest.ParseFeatureList(s)...)
	}

	noDefault := cfg.NoDefaultFeatures
	if flagSet("no-default-features") {
		noDefault = buildFlags.noDefaultFeatures
	}

	out := cfg.OutputRoot
	if flagSet("out") {
		out = buildFlags.out
	}

	profile := cfg.Profile
	if flagSet("profile") {
		profile = config.Profile(buildFlags.profile)
	}

	apiLevel := ndk.APILevel(cfg.APILevel)
	if flagSet("api-level") {
		apiLevel = ndk.APILevel(buildFlags.apiLevel)
	}

	pageSize := cfg.PageSize
	if flagSet("page-size") {
		pageSize = buildFlags.pageSize
	}

	linkArgs := cfg.ExtraLinkArgs
	if flagSet("link-arg") {
		linkArgs = buildFlags.linkArgs
	}

	cargoPath := cfg.CargoPath
	if flagSet("cargo") {
		cargoPath = buildFlags.cargoPath
	}

	ndkHome := cfg.NdkHome
	if flagSet("ndk-home") {
		ndkHome = buildFlags.ndkHome
	}

	return build.Options{
		ManifestPath:      buildFlags.manifestPath,
		Target:            ndk.ABI(target),
		Features:          features,
		NoDefaultFeatures: noDefault,
		OutputRoot:        out,
		Profile:           profile,
		PageSize:          pageSize,
		APILevel:          apiLevel,
		ExtraLinkArgs:     linkArgs,
		CargoPath:         cargoPath,
		NdkHome:           ndkHome,
		Verify:            buildFlags.verify,
	}
}

// buildFailure renders the issue catalog entry matching err, prints the
// error itself, and wraps it in an ExitError carrying the exit code.
func buildFailure(err error, code types.ExitCode) error {
	rendered, renderErr := issue.Get(classifyBuildIssue(err)).Render("dark")
	if renderErr == nil {
		fmt.Fprint(os.Stderr, rendered)
	}
	fmt.Fprintf(os.Stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	return &ExitError{Code: code, Err: err}
}

// classifyBuildIssue maps pipeline failures to issue catalog IDs.
func classifyBuildIssue(err error) issue.Id {
	switch {
	case errors.Is(err, ndk.ErrUnsupportedTarget):
		return issue.UnsupportedTargetId
	case errors.Is(err, manifest.ErrUnknownFeature):
		return issue.UnknownFeatureId
	case errors.Is(err, manifest.ErrManifestNotFound):
		return issue.ManifestNotFoundId
	case errors.Is(err, manifest.ErrManifestParse), errors.Is(err, manifest.ErrNoSharedObjectTarget):
		return issue.ManifestParseErrorId
	case errors.Is(err, build.ErrCargoNotFound):
		return issue.CargoNotFoundId
	case errors.Is(err, ndk.ErrNdkNotFound):
		return issue.NdkNotFoundId
	case errors.Is(err, build.ErrLinkFailed):
		return issue.LinkFailedId
	case errors.Is(err, artifact.ErrVerifyFailed):
		return issue.ArtifactVerifyFailedId
	case errors.Is(err, artifact.ErrOutputPath):
		return issue.OutputPathId
	default:
		return issue.ToolchainInvocationId
	}
}

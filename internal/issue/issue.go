// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	UnsupportedTargetId Id = iota + 1
	UnknownFeatureId
	LinkFailedId
	OutputPathId
	ToolchainInvocationId
	CargoNotFoundId
	NdkNotFoundId
	ManifestNotFoundId
	ManifestParseErrorId
	ConfigLoadFailedId
	ArtifactVerifyFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // links into the droidforge docs
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	unsupportedTargetIssue = &Issue{
		id: UnsupportedTargetId,
		mdMsg: `
# Unsupported target!

The target selector you specified is not a recognized Android ABI.

## Supported ABI selectors:
~~~
$ droidforge targets
~~~

## Things you can try:
- Use the ABI name, not the Rust triple:
~~~
$ droidforge build --target arm64-v8a
~~~

- Make sure the Rust target is installed for cross-compilation:
~~~
$ rustup target add aarch64-linux-android
~~~`,
	}

	unknownFeatureIssue = &Issue{
		id: UnknownFeatureId,
		mdMsg: `
# Unknown feature!

One of the requested features is not declared in the crate's Cargo.toml.

## Things you can try:
- List the features your crate declares:
~~~
$ grep -A10 '\[features\]' Cargo.toml
~~~

- Fix the feature list on the command line:
~~~
$ droidforge build --features android,vulkan
~~~

- Or declare the missing feature in Cargo.toml:
~~~toml
[features]
android = []
vulkan = ["dep:vulkano"]
~~~`,
	}

	linkFailedIssue = &Issue{
		id: LinkFailedId,
		mdMsg: `
# Linker failed!

The compile phase succeeded but the linker rejected the produced objects
or one of the flags passed through to it.

## Common causes:
- A malformed '-C link-arg=...' passthrough flag
- A missing NDK sysroot library for the requested API level
- An NDK toolchain older than r26 (no 16 KiB page-size support)

## Things you can try:
- Re-run with verbose mode to see the exact linker command:
~~~
$ droidforge --verbose build
~~~

- Inspect the raw diagnostic above; it is forwarded verbatim from the linker.
- Check that ANDROID_NDK_HOME points at a complete NDK installation.`,
	}

	outputPathIssue = &Issue{
		id: OutputPathId,
		mdMsg: `
# Output directory not writable!

The output root could not be created or written to.

## Things you can try:
- Check permissions on the parent directory
- Point the build somewhere writable:
~~~
$ droidforge build --out /tmp/jniLibs
~~~

- Or set a default in your config file:
~~~cue
output_root: "android/app/src/main/jniLibs"
~~~`,
	}

	toolchainInvocationIssue = &Issue{
		id: ToolchainInvocationId,
		mdMsg: `
# Build failed!

cargo exited with a non-zero status. The diagnostic above is forwarded
verbatim from the toolchain.

## Things you can try:
- Re-run with verbose mode for the full invocation:
~~~
$ droidforge --verbose build
~~~

- Reproduce the failure directly (print the exact command first):
~~~
$ droidforge build --dry-run
~~~`,
	}

	cargoNotFoundIssue = &Issue{
		id: CargoNotFoundId,
		mdMsg: `
# cargo not found!

droidforge drives the Rust toolchain through cargo, but no cargo binary
was found on PATH.

## Things you can try:
- Install the Rust toolchain:
~~~
$ curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh
~~~

- Or point droidforge at a specific binary:
~~~cue
cargo_path: "/opt/rust/bin/cargo"
~~~`,
		extLinks: []HttpLink{"https://rustup.rs"},
	}

	ndkNotFoundIssue = &Issue{
		id: NdkNotFoundId,
		mdMsg: `
# Android NDK not found!

Cross-compiling for Android needs the NDK's clang as the target linker.

## Things you can try:
- Set ANDROID_NDK_HOME (or ANDROID_NDK_ROOT) to your NDK installation:
~~~
$ export ANDROID_NDK_HOME=$HOME/Android/Sdk/ndk/27.2.12479018
~~~

- Or record it in your config file:
~~~cue
ndk_home: "/opt/android-ndk"
~~~

- Install the NDK via Android Studio's SDK Manager or sdkmanager:
~~~
$ sdkmanager "ndk;27.2.12479018"
~~~`,
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No Cargo.toml found!

droidforge builds a Rust crate, but no manifest was found at the expected
location.

## Things you can try:
- Run droidforge from the crate root (next to Cargo.toml)
- Or point at the manifest explicitly:
~~~
$ droidforge build --manifest path/to/Cargo.toml
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse Cargo.toml!

The crate manifest contains syntax errors or unexpected structure.

## Things you can try:
- Check the error message above for the offending key
- Validate the manifest with cargo itself:
~~~
$ cargo metadata --no-deps
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the droidforge configuration file.

## Configuration file locations:
- Linux: ~/.config/droidforge/config.cue
- macOS: ~/Library/Application Support/droidforge/config.cue
- Windows: %APPDATA%\droidforge\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ droidforge config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
output_root: "android/app/src/main/jniLibs"
default_target: "arm64-v8a"
features: ["android", "vulkan"]
no_default_features: true

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	artifactVerifyFailedIssue = &Issue{
		id: ArtifactVerifyFailedId,
		mdMsg: `
# Artifact verification failed!

The produced shared object does not satisfy the expected constraints
(most commonly the 16 KiB load-segment alignment Android 15+ wants).

## Things you can try:
- Inspect the program headers yourself:
~~~
$ droidforge inspect path/to/libfoo.so
~~~

- Make sure the page-size linker flags were not stripped by a custom
  RUSTFLAGS value that overrides instead of appends.
- Upgrade the NDK: 16 KiB alignment needs a linker from r26 or newer.`,
	}

	issues = map[Id]*Issue{
		unsupportedTargetIssue.Id():    unsupportedTargetIssue,
		unknownFeatureIssue.Id():       unknownFeatureIssue,
		linkFailedIssue.Id():           linkFailedIssue,
		outputPathIssue.Id():           outputPathIssue,
		toolchainInvocationIssue.Id():  toolchainInvocationIssue,
		cargoNotFoundIssue.Id():        cargoNotFoundIssue,
		ndkNotFoundIssue.Id():          ndkNotFoundIssue,
		manifestNotFoundIssue.Id():     manifestNotFoundIssue,
		manifestParseErrorIssue.Id():   manifestParseErrorIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		artifactVerifyFailedIssue.Id(): artifactVerifyFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

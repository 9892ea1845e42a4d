// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"droidforge/internal/build"
)

// renderDryRun prints the fully resolved cargo invocation without executing
// it: crate and target identity, the command line, the environment entries
// layered onto the child process, and where the artifact would land.
func renderDryRun(w io.Writer, plan *build.Plan, opts build.Options) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s %s %s\n", VerboseHighlightStyle.Render("Crate:"), plan.Manifest.Package.Name, plan.Manifest.Package.Version)
	fmt.Fprintf(w, "  %s %s (%s)\n", VerboseHighlightStyle.Render("Target:"), opts.Target, opts.Target.RustTriple())
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Profile:"), opts.Profile)
	if len(opts.Features) > 0 {
		names := make([]string, len(opts.Features))
		for i, f := range opts.Features {
			names[i] = f.String()
		}
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Features:"), strings.Join(names, ", "))
	} else {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Features:"), SubtitleStyle.Render("(none)"))
	}
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Linker:"), plan.Toolchain.Linker(opts.Target, opts.APILevel))

	fmt.Fprintln(w)
	fmt.Fprintln(w, VerboseHighlightStyle.Render("  Command:"))
	fmt.Fprintf(w, "    %s\n", quoteCommandLine(plan.Invocation.CommandLine()))

	fmt.Fprintln(w)
	fmt.Fprintln(w, VerboseHighlightStyle.Render("  Environment:"))
	for _, kv := range plan.Invocation.Env {
		key, value, _ := strings.Cut(kv, "=")
		fmt.Fprintf(w, "    %s=%s\n", key, quoteShellWord(value))
	}

	fmt.Fprintln(w)
	artifactPath := filepath.Join(opts.OutputRoot, opts.Target.String(), plan.SharedObject)
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Artifact:"), artifactPath)
	fmt.Fprintln(w)
}

// quoteCommandLine renders a command and its arguments as one
// copy-pasteable shell line.
func quoteCommandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = quoteShellWord(arg)
	}
	return strings.Join(quoted, " ")
}

// quoteShellWord quotes a single word for POSIX sh. Words syntax.Quote
// cannot represent (control bytes) fall back to the raw string; they never
// appear in cargo invocations.
func quoteShellWord(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return s
	}
	return quoted
}

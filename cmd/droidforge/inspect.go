// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"droidforge/internal/artifact"
)

var inspectFlags struct {
	pageSize int
	symbols  bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <shared-object>",
	Short: "Inspect a built shared object",
	Long: `Inspect an ELF shared object: machine architecture, load-segment
alignment, and optionally the exported dynamic symbols.

With --page-size the alignment is checked against the given value and the
command fails when the artifact is under-aligned. This is the same check
'build --verify' runs before publishing.`,
	Example: `  droidforge inspect android/app/src/main/jniLibs/arm64-v8a/librenderer.so
  droidforge inspect --page-size 16384 librenderer.so
  droidforge inspect --symbols librenderer.so`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectFlags.pageSize, "page-size", 0, "fail unless load segments are aligned to this many bytes")
	inspectCmd.Flags().BoolVar(&inspectFlags.symbols, "symbols", false, "list exported dynamic symbols")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := artifact.Inspect(path)
	if err != nil {
		return buildFailure(err, 1)
	}

	fmt.Fprintf(os.Stdout, "  %s %s\n", VerboseHighlightStyle.Render("Path:"), info.Path)
	fmt.Fprintf(os.Stdout, "  %s %s\n", VerboseHighlightStyle.Render("Machine:"), info.Machine)
	fmt.Fprintf(os.Stdout, "  %s %d bytes\n", VerboseHighlightStyle.Render("Alignment:"), info.LoadAlignment)

	if inspectFlags.pageSize > 0 {
		if err := info.VerifyAlignment(uint64(inspectFlags.pageSize)); err != nil {
			return buildFailure(err, 1)
		}
		fmt.Fprintf(os.Stdout, "  %s load segments aligned to %d bytes\n", SuccessStyle.Render("✓"), inspectFlags.pageSize)
	}

	if inspectFlags.symbols {
		fmt.Fprintln(os.Stdout)
		if len(info.ExportedSymbols) == 0 {
			fmt.Fprintln(os.Stdout, SubtitleStyle.Render("  (no exported symbols)"))
		} else {
			fmt.Fprintln(os.Stdout, VerboseHighlightStyle.Render("  Exported symbols:"))
			for _, sym := range info.ExportedSymbols {
				fmt.Fprintf(os.Stdout, "    %s\n", sym)
			}
		}
	}

	return nil
}

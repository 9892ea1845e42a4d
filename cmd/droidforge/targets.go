// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"droidforge/internal/config"
	"droidforge/internal/ndk"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported Android ABIs",
	Long: `List the Android ABIs droidforge can build for, with the Rust target
triple and NDK clang triple each one maps to.`,
	Args: cobra.NoArgs,
	RunE: runTargets,
}

func runTargets(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	fmt.Fprintln(os.Stdout, TitleStyle.Render("Supported Targets"))
	fmt.Fprintln(os.Stdout)

	for _, abi := range ndk.SupportedABIs() {
		marker := " "
		if abi.String() == cfg.DefaultTarget {
			marker = SuccessStyle.Render("*")
		}
		fmt.Fprintf(os.Stdout, "  %s %-12s %s %s\n",
			marker,
			CmdStyle.Render(abi.String()),
			abi.RustTriple(),
			SubtitleStyle.Render("(clang: "+abi.ClangTriple()+")"))
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, SubtitleStyle.Render("  (* = default target)"))
	return nil
}

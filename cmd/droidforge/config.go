// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"droidforge/internal/config"
	"droidforge/internal/issue"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage droidforge configuration",
	Long: `Manage droidforge configuration.

Configuration is stored in:
  - Linux: ~/.config/droidforge/config.cue
  - macOS: ~/Library/Application Support/droidforge/config.cue
  - Windows: %APPDATA%\droidforge\config.cue

A droidforge.cue in the working directory overrides the user-level file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig() error {
	cfg, path, err := config.LoadWithPath()
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("output_root"), valueStyle.Render(cfg.OutputRoot))
	fmt.Printf("%s: %s\n", keyStyle.Render("default_target"), valueStyle.Render(cfg.DefaultTarget))
	fmt.Printf("%s: %s\n", keyStyle.Render("features"), valueStyle.Render(formatList(cfg.Features)))
	fmt.Printf("%s: %s\n", keyStyle.Render("no_default_features"), valueStyle.Render(fmt.Sprintf("%v", cfg.NoDefaultFeatures)))
	fmt.Printf("%s: %s\n", keyStyle.Render("profile"), valueStyle.Render(cfg.Profile.String()))
	fmt.Printf("%s: %s\n", keyStyle.Render("api_level"), valueStyle.Render(fmt.Sprintf("%d", cfg.APILevel)))
	fmt.Printf("%s: %s\n", keyStyle.Render("page_size"), valueStyle.Render(fmt.Sprintf("%d", cfg.PageSize)))

	if cfg.CargoPath != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("cargo_path"), valueStyle.Render(cfg.CargoPath))
	}
	if cfg.NdkHome != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("ndk_home"), valueStyle.Render(cfg.NdkHome))
	}
	if len(cfg.ExtraLinkArgs) > 0 {
		fmt.Printf("%s: %s\n", keyStyle.Render("extra_link_args"), valueStyle.Render(formatList(cfg.ExtraLinkArgs)))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), filepath.Join(cfgDir, "config.cue"))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, "config.cue"))
	return nil
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

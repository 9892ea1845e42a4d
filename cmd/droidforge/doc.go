// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for droidforge.
//
// This package implements the Cobra command hierarchy for the droidforge
// CLI: the root command, the build pipeline command, target and artifact
// inspection, and configuration management.
package cmd

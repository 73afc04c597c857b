package main

import (
	"os"

	"github.com/redraft-ai/redraft/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "redraft",
	Short: "An interactive review surface for writing analysis",
	Long: `redraft turns writing-analysis output into an interactive review:
each structural block of the document becomes a card with its issues,
confidence-ranked and filterable, with AI rewrite and feedback built in.

Features:
  • Block-tree rendering with per-kind renderers
  • Confidence-based severity classification and smart filtering
  • AI rewrite orchestration with live station progress
  • Helpful / not-helpful feedback that persists across sessions`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewRenderCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

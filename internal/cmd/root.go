package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for plugdex
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugdex",
		Short: "Regenerate the Neovim AI plugin directory README",
		Long: `Plugdex regenerates a curated plugin directory from the reference list
embedded in the README itself.

It recovers the embedded list, enriches each repository with GitHub
metadata (stars, description, license, last commit, supported AI models),
and deterministically rewrites the document. A run either succeeds and
replaces the README atomically or fails and leaves it untouched.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/plugdex/internal/enrich"
	"github.com/harrison/plugdex/internal/generator"
	"github.com/harrison/plugdex/internal/parser"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the README's embedded list parses",
		Long: `Parse the README's embedded plugin list and report what was found,
without calling the GitHub API or writing anything.

Exits non-zero when the disclosure widget is missing, a bullet line is
malformed, or the list is empty - the same conditions that would abort a
generate run.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .plugdex/config.yaml)")
	cmd.Flags().String("readme", "", "Path to the README document")
	cmd.Flags().Bool("verbose", false, "List every parsed reference")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	gen := generator.New(cfg.ReadmePath, parser.NewReadmeParser(cfg.Marker), nil, nil, nil)

	refs, err := gen.Validate()
	if err != nil {
		return err
	}

	recognized := 0
	for _, ref := range refs {
		if enrich.IsGitHub(string(ref)) {
			recognized++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d reference(s), %d recognized, %d unknown\n",
		cfg.ReadmePath, len(refs), recognized, len(refs)-recognized)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		for _, ref := range refs {
			fmt.Fprintf(out, "  - %s\n", ref)
		}
	}

	return nil
}

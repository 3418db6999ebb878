package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/plugdex/internal/cache"
	"github.com/harrison/plugdex/internal/config"
	"github.com/harrison/plugdex/internal/docs"
	"github.com/harrison/plugdex/internal/enrich"
	"github.com/harrison/plugdex/internal/generator"
	"github.com/harrison/plugdex/internal/github"
	"github.com/harrison/plugdex/internal/logger"
	"github.com/harrison/plugdex/internal/parser"
	"github.com/harrison/plugdex/internal/render"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the README from its embedded plugin list",
		Long: `Regenerate the README document from the plugin list embedded inside it.

The embedded list is located by its disclosure widget marker, parsed with a
strict one-bullet-per-line grammar, enriched via the GitHub API, and the
whole document is rewritten atomically. Any parse or fetch failure aborts
the run without writing.

Configuration is loaded from .plugdex/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  plugdex generate
  plugdex generate --readme docs/README.md
  plugdex generate --dry-run                # Print the result, write nothing
  plugdex generate --max-concurrency 8
  plugdex generate --docs-dir /tmp/plugin-docs`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .plugdex/config.yaml)")
	cmd.Flags().String("readme", "", "Path to the README document")
	cmd.Flags().String("docs-dir", "", "Directory for downloaded documentation files")
	cmd.Flags().Bool("dry-run", false, "Compose the document and print it without writing")
	cmd.Flags().Int("max-concurrency", -1, "Maximum concurrent metadata fetches (0 = unlimited, -1 = use config)")
	cmd.Flags().String("log-level", "", "Logging verbosity (trace, debug, info, warn, error)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	client := github.NewClient(cfg.HTTPTimeout, config.GitHubToken())

	var meta enrich.MetadataService = client
	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cfg.Cache.DBPath, cfg.Cache.TTL)
		if err != nil {
			return err
		}
		defer store.Close()
		meta = cache.NewReadThrough(store, client)
	}

	fetcher, err := docs.NewFetcher(client, cfg.DocsDir, log)
	if err != nil {
		return err
	}

	enricher := enrich.NewEnricher(meta, fetcher,
		enrich.WithDescriptionLength(cfg.DescriptionLength),
		enrich.WithMaxConcurrency(cfg.MaxConcurrency),
	)

	gen := generator.New(
		cfg.ReadmePath,
		parser.NewReadmeParser(cfg.Marker),
		enricher,
		render.NewComposer(cfg.Marker),
		log,
	)

	if dryRun {
		text, err := gen.Generate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	return gen.Run(cmd.Context())
}

// loadConfigFromFlags loads the YAML config and applies flag overrides.
func loadConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if readme, _ := cmd.Flags().GetString("readme"); readme != "" {
		cfg.ReadmePath = readme
	}
	if docsDir, _ := cmd.Flags().GetString("docs-dir"); docsDir != "" {
		cfg.DocsDir = docsDir
	}
	if logLevel, _ := cmd.Flags().GetString("log-level"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("max-concurrency") {
		maxConcurrency, _ := cmd.Flags().GetInt("max-concurrency")
		if maxConcurrency >= 0 {
			cfg.MaxConcurrency = maxConcurrency
		}
	}

	if _, err := os.Stat(cfg.ReadmePath); err != nil {
		return nil, fmt.Errorf("readme %q: %w", cfg.ReadmePath, err)
	}

	return cfg, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambrish/job-aggregator/internal/config"
	"github.com/ambrish/job-aggregator/internal/observability"
	"github.com/ambrish/job-aggregator/internal/pipeline"
	"github.com/ambrish/job-aggregator/internal/source"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the aggregation pipeline over the configured sources",
	Long: `Fetches messages from every configured source, structures them with the
language model, inserts new postings, and links duplicates.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runAggregation,
}

var (
	runConfigPath  string
	runFiles       []string
	runProvider    string
	runOllamaURL   string
	runModel       string
	runAPIKey      string
	runDBPath      string
	runDatabaseURL string
	runWorkers     int
	runVerbose     bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringSliceVarP(&runFiles, "file", "f", nil, "HTML export file to process (repeatable; adds to configured sources)")
	runCommand.Flags().StringVar(&runProvider, "provider", "", "Model provider: ollama or gemini")
	runCommand.Flags().StringVar(&runOllamaURL, "ollama-url", "", "Ollama base URL (defaults to OLLAMA_URL env var)")
	runCommand.Flags().StringVarP(&runModel, "model", "m", "", "Model name (defaults to OLLAMA_MODEL env var)")
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runDBPath, "db", "", "SQLite database path (defaults to DB_PATH env var)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	runCommand.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Concurrent model calls per source")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print per-message progress")

	rootCmd.AddCommand(runCommand)
}

func runAggregation(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// CLI flags override config file values only when explicitly set.
	if cmd.Flags().Changed("provider") {
		cfg.Provider = runProvider
	}
	if cmd.Flags().Changed("ollama-url") {
		cfg.OllamaURL = runOllamaURL
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = runDBPath
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = runWorkers
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	if err := cfg.Validate(); err != nil {
		return err
	}

	sources, err := buildSources(cfg)
	if err != nil {
		return err
	}
	for i, path := range runFiles {
		sources = append(sources, source.NewDocumentSource(fmt.Sprintf("file-%d", i+1), path))
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured; pass --file or a config with a sources list")
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	agg := pipeline.New(client, st,
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithVerbose(cfg.Verbose),
	)

	summary, runErr := agg.Run(ctx, sources)

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintSourceStats(summary)
	}
	printer.PrintRunSummary(summary)

	return runErr
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambrish/job-aggregator/internal/config"
	"github.com/ambrish/job-aggregator/internal/identity"
	"github.com/ambrish/job-aggregator/internal/observability"
)

var dedupCommand = &cobra.Command{
	Use:   "dedup",
	Short: "Run the duplicate-linking pass over stored records",
	Long: `Scans every stored record, groups records whose normalized
(company, role, location) tuple matches, and links each group's later
records back to its earliest one. Safe to re-run; existing links are kept.`,
	RunE: runDedup,
}

var (
	dedupDBPath      string
	dedupDatabaseURL string
	dedupShowLinks   bool
)

func init() {
	dedupCommand.Flags().StringVar(&dedupDBPath, "db", "", "SQLite database path (defaults to DB_PATH env var)")
	dedupCommand.Flags().StringVar(&dedupDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	dedupCommand.Flags().BoolVar(&dedupShowLinks, "links", false, "Print all stored duplicate links after the pass")

	rootCmd.AddCommand(dedupCommand)
}

func runDedup(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.Config{DBPath: dedupDBPath, DatabaseURL: dedupDatabaseURL}
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	inserted, err := identity.Pass(ctx, st)
	if err != nil {
		return err
	}
	fmt.Printf("Linked %d new duplicate pairs\n", inserted)

	if dedupShowLinks {
		links, err := st.ListLinks(ctx)
		if err != nil {
			return err
		}
		observability.NewPrinter(os.Stdout).PrintDuplicateLinks(links)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambrish/job-aggregator/internal/config"
	"github.com/ambrish/job-aggregator/internal/observability"
	"github.com/ambrish/job-aggregator/internal/store"
)

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List stored job postings",
	Long: `Lists stored postings with optional filters, newest first. Use --count
for a bare total and --distinct to enumerate the values of one column.`,
	RunE: runList,
}

var (
	listDBPath      string
	listDatabaseURL string
	listJobType     string
	listLocation    string
	listCompany     string
	listSource      string
	listDateFrom    string
	listDateTo      string
	listPage        int
	listPageSize    int
	listCount       bool
	listDistinct    string
)

func init() {
	listCommand.Flags().StringVar(&listDBPath, "db", "", "SQLite database path (defaults to DB_PATH env var)")
	listCommand.Flags().StringVar(&listDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	listCommand.Flags().StringVar(&listJobType, "job-type", "", "Filter by exact job type")
	listCommand.Flags().StringVar(&listLocation, "location", "", "Filter by location substring")
	listCommand.Flags().StringVar(&listCompany, "company", "", "Filter by company substring")
	listCommand.Flags().StringVar(&listSource, "source", "", "Filter by exact source name")
	listCommand.Flags().StringVar(&listDateFrom, "from", "", "Only postings dated on or after (ISO timestamp)")
	listCommand.Flags().StringVar(&listDateTo, "to", "", "Only postings dated on or before (ISO timestamp)")
	listCommand.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCommand.Flags().IntVar(&listPageSize, "page-size", store.DefaultPageSize, "Records per page")
	listCommand.Flags().BoolVar(&listCount, "count", false, "Print only the total number of stored records")
	listCommand.Flags().StringVar(&listDistinct, "distinct", "", "List distinct values of a column (source, location, company_name, job_type)")

	rootCmd.AddCommand(listCommand)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.Config{DBPath: listDBPath, DatabaseURL: listDatabaseURL}
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if listCount {
		n, err := st.CountRecords(ctx)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	}

	if listDistinct != "" {
		values, err := st.Distinct(ctx, listDistinct)
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Println(v)
		}
		return nil
	}

	page, err := st.ListRecords(ctx, store.Filters{
		JobType:  listJobType,
		Location: listLocation,
		Company:  listCompany,
		Source:   listSource,
		DateFrom: listDateFrom,
		DateTo:   listDateTo,
		Page:     listPage,
		PageSize: listPageSize,
	})
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintRecordsPage(page)
	return nil
}

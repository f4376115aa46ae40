package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambrish/job-aggregator/internal/config"
)

var sourcesCommand = &cobra.Command{
	Use:   "sources",
	Short: "Print the sources a config file would run",
	RunE:  runSources,
}

var sourcesConfigPath string

func init() {
	sourcesCommand.Flags().StringVar(&sourcesConfigPath, "config", "", "Path to config.json file")
	_ = sourcesCommand.MarkFlagRequired("config")

	rootCmd.AddCommand(sourcesCommand)
}

func runSources(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(sourcesConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		fmt.Println("No sources configured.")
		return nil
	}

	for _, src := range cfg.Sources {
		target := src.Path
		if src.Kind == config.SourceKindURL {
			target = src.URL
		}
		state := "enabled"
		if !src.IsEnabled() {
			state = "disabled"
		}
		fmt.Printf("%-20s %-5s %-8s %s\n", src.Name, src.Kind, state, target)
	}
	return nil
}

// Package main provides the entry point for the job aggregator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobagg",
	Short: "Chat-export job posting aggregator",
	Long:  "jobagg extracts messages from exported chat documents, structures them into job postings with a language model, and maintains a deduplicated store of the results.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

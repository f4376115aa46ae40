package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambrish/job-aggregator/internal/extract"
)

var extractCommand = &cobra.Command{
	Use:   "extract <export.html>",
	Short: "Extract raw messages from an HTML export without structuring them",
	Long: `Parses a saved chat export and prints the extracted messages as JSON.
The output can be replayed later through 'run' via a json-kind source.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var extractOutput string

func init() {
	extractCommand.Flags().StringVarP(&extractOutput, "output", "o", "", "Write JSON to a file instead of stdout")

	rootCmd.AddCommand(extractCommand)
}

func runExtract(cmd *cobra.Command, args []string) error {
	msgs, err := extract.New().FromFile(args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}
	data = append(data, '\n')

	if extractOutput != "" {
		if err := os.WriteFile(extractOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", extractOutput, err)
		}
		fmt.Printf("Wrote %d messages to %s\n", len(msgs), extractOutput)
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}

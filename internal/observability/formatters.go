// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/ambrish/job-aggregator/internal/store"
	"github.com/ambrish/job-aggregator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxDescriptionLen truncates long descriptions in list output
	maxDescriptionLen = 120
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs the final report for an aggregation run.
func (p *Printer) PrintRunSummary(summary *types.RunSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:       %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", summary.FinishedAt.Sub(summary.StartedAt).Round(1e6)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Processed: %d\n", summary.Processed))
	sb.WriteString(fmt.Sprintf("Accepted:  %d\n", summary.Accepted))
	sb.WriteString(fmt.Sprintf("Inserted:  %d\n", summary.Inserted))
	sb.WriteString(fmt.Sprintf("Duplicate: %d\n", summary.Duplicate))
	sb.WriteString(fmt.Sprintf("Rejected:  %d\n", summary.Rejected))
	sb.WriteString(fmt.Sprintf("Links:     %d\n", summary.DuplicateLinks))
	sb.WriteString(fmt.Sprintf("Stored:    %d\n", summary.TotalStored))

	failed := 0
	for _, st := range summary.Sources {
		if st.Err != "" {
			failed++
		}
	}
	if failed > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Failed sources: %d\n", failed))
		for _, st := range summary.Sources {
			if st.Err != "" {
				sb.WriteString(fmt.Sprintf("  • %s: %s\n", st.Source, st.Err))
			}
		}
	}

	p.printBox("AGGREGATION RUN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSourceStats outputs per-source tallies, one line per source.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSourceStats(summary *types.RunSummary) {
	if summary == nil || len(summary.Sources) == 0 {
		return
	}
	for _, st := range summary.Sources {
		if st.Err != "" {
			fmt.Fprintf(p.out, "%-20s failed: %s\n", st.Source, st.Err)
			continue
		}
		fmt.Fprintf(p.out, "%-20s processed=%d accepted=%d inserted=%d duplicate=%d rejected=%d\n",
			st.Source, st.Processed, st.Accepted, st.Inserted, st.Duplicate, st.Rejected)
	}
}

// PrintRecordsPage outputs a page of stored records.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRecordsPage(page *store.Page) {
	if page == nil {
		return
	}
	if len(page.Records) == 0 {
		fmt.Fprintln(p.out, "No records found.")
		return
	}

	for _, rec := range page.Records {
		fmt.Fprintf(p.out, "%s — %s\n", rec.Role, rec.CompanyName)
		fmt.Fprintf(p.out, "  Location:  %s\n", rec.Location)
		if rec.JobType != "" {
			fmt.Fprintf(p.out, "  Type:      %s\n", rec.JobType)
		}
		if rec.ExperienceRequired != "" {
			fmt.Fprintf(p.out, "  Experience: %s\n", rec.ExperienceRequired)
		}
		if rec.ApplicationLink != "" {
			fmt.Fprintf(p.out, "  Apply:     %s\n", rec.ApplicationLink)
		}
		if rec.Description != "" {
			desc := rec.Description
			if len(desc) > maxDescriptionLen {
				desc = desc[:maxDescriptionLen-3] + "..."
			}
			fmt.Fprintf(p.out, "  %s\n", desc)
		}
		fmt.Fprintf(p.out, "  Source: %s  Posted: %s\n", rec.Source, rec.DatePosted)
		fmt.Fprintln(p.out)
	}

	fmt.Fprintf(p.out, "Page %d of %d (%d records total)\n",
		page.Page, page.TotalPages, page.Total)
}

// PrintDuplicateLinks outputs the stored duplicate pairs.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDuplicateLinks(links []types.DuplicateLink) {
	if len(links) == 0 {
		fmt.Fprintln(p.out, "No duplicate links.")
		return
	}
	for _, link := range links {
		fmt.Fprintf(p.out, "%s ↔ %s (score %.2f)\n",
			shortID(link.OriginalPostID), shortID(link.DuplicatePostID), link.SimilarityScore)
	}
	fmt.Fprintf(p.out, "%d duplicate links\n", len(links))
}

// shortID abbreviates hash-length post_ids for display. IDs written
// under older identity schemes can be arbitrarily short and are kept
// whole.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

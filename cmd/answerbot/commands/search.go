// ABOUTME: CLI command to rank contract sections against a query
// ABOUTME: Shows relatedness scores without calling the chat model
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find the contract sections most related to a query",
		Long: `Rank contract sections by embedding similarity to a query.

Useful to see which sections a question would pull into the prompt.

Examples:
  answerbot search "vacation accrual"
  answerbot search --limit 10 "reserve rest"
  answerbot search --format json "sick leave"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Validate limit flag
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	client, err := a.openAI()
	if err != nil {
		return err
	}
	p, err := a.pipeline(cmd.Context(), a.model, client)
	if err != nil {
		return err
	}

	results, err := p.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching contract: %w", err)
	}
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No contract sections found for query: %s\n", query)
		}
		return nil
	}

	// Format output
	if outputFormat == "json" {
		return printJSON(cmd, results)
	}

	// Table format
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tSCORE\tSECTION\n")
	fmt.Fprintf(w, "----\t-----\t-------\n")
	for i, result := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%s\n", i+1, result.Relatedness, truncate(singleLine(result.Text), 80))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}

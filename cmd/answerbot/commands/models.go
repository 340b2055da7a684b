// ABOUTME: CLI command listing the supported chat models
// ABOUTME: Shows API names, context windows, and per-1K-token pricing
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/answerbot/internal/models"
)

// modelInfo is the JSON shape of one models row
type modelInfo struct {
	Label           string  `json:"label"`
	APIName         string  `json:"api_name"`
	ContextWindow   int     `json:"context_window"`
	PromptPrice     float64 `json:"prompt_price_per_1k"`
	CompletionPrice float64 `json:"completion_price_per_1k"`
}

// NewModelsCmd creates the models command
func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List supported chat models",
		Long: `List the chat models answerbot can answer with.

Either the label or the API name works for --model and ANSWERBOT_GPT_MODEL.
Prices are USD per 1K tokens and drive the cost shown with each answer.`,
		Args: cobra.NoArgs,
		RunE: runModels,
	}

	return cmd
}

func runModels(cmd *cobra.Command, args []string) error {
	all := models.ChatModels()
	rows := make([]modelInfo, len(all))
	for i, m := range all {
		prompt, completion := m.Pricing()
		rows[i] = modelInfo{
			Label:           m.String(),
			APIName:         m.APIName(),
			ContextWindow:   m.ContextWindow(),
			PromptPrice:     prompt,
			CompletionPrice: completion,
		}
	}

	if outputFormat == "json" {
		return printJSON(cmd, rows)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "MODEL\tAPI NAME\tCONTEXT\tPROMPT $/1K\tCOMPLETION $/1K\n")
	fmt.Fprintf(w, "-----\t--------\t-------\t-----------\t---------------\n")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\n", r.Label, r.APIName, r.ContextWindow, r.PromptPrice, r.CompletionPrice)
	}
	return w.Flush()
}

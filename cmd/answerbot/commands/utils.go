// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Text shortening, flag validation, model resolution, and JSON output
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/answerbot/internal/models"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// singleLine collapses all whitespace runs, including newlines, to one space
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// resolveModel picks the --model flag when set, else the configured default
func resolveModel(flag string, fallback models.ChatModel) (models.ChatModel, error) {
	if strings.TrimSpace(flag) == "" {
		return fallback, nil
	}
	m, err := models.ParseChatModel(flag)
	if err != nil {
		return 0, fmt.Errorf("--model: %w", err)
	}
	return m, nil
}

// printJSON writes v as indented JSON to the command's stdout
func printJSON(cmd *cobra.Command, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	return nil
}

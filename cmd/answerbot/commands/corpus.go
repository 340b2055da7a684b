// ABOUTME: CLI commands for the embedded contract corpus
// ABOUTME: push uploads a local CSV to Charm FS; info loads and describes the configured corpus
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/answerbot/internal/charm"
)

// NewCorpusCmd creates the corpus command group
func NewCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the embedded contract",
		Long: `Manage the pre-embedded contract CSV.

The CSV needs a header with "text" and "embedding" columns; embeddings are
bracketed number lists such as "[0.012, -0.034]". Other columns are ignored.`,
	}

	cmd.AddCommand(newCorpusPushCmd(), newCorpusInfoCmd())
	return cmd
}

func newCorpusPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <local.csv> [remote-path]",
		Short: "Upload an embedded contract to Charm Cloud",
		Long: `Validate a local embedded contract CSV and upload it to Charm FS.

Without a remote path the file goes to the configured charm:// location, or
answerbot/<file name> when the configured location is local.

Examples:
  answerbot corpus push cba_2015_base.csv
  answerbot corpus push cba_2023.csv answerbot/cba_2023.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCorpusPush,
	}
}

func runCorpusPush(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	local := args[0]
	remote := ""
	if len(args) == 2 {
		remote = args[1]
		if path, ok := charm.ParseLocation(remote); ok {
			remote = path
		}
	} else if path, ok := charm.ParseLocation(a.cfg.EmbeddingsPath); ok {
		remote = path
	} else {
		remote = "answerbot/" + filepath.Base(local)
	}

	client, err := a.charmClient()
	if err != nil {
		return err
	}

	c, err := client.Push(cmd.Context(), local, remote)
	if err != nil {
		return err
	}
	a.logger.Info("uploaded corpus", "path", remote, "host", client.Host())

	location := charm.Scheme + remote
	if outputFormat == "json" {
		return printJSON(cmd, map[string]interface{}{
			"location":  location,
			"chunks":    c.Len(),
			"dimension": c.Dimension(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d chunks (dimension %d) to %s\n", c.Len(), c.Dimension(), location)
	return nil
}

func newCorpusInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Load the configured corpus and describe it",
		Args:  cobra.NoArgs,
		RunE:  runCorpusInfo,
	}
}

func runCorpusInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.loadCorpus(cmd.Context())
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(cmd, map[string]interface{}{
			"location":  a.cfg.EmbeddingsPath,
			"chunks":    c.Len(),
			"dimension": c.Dimension(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Location:  %s\n", a.cfg.EmbeddingsPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Chunks:    %d\n", c.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "Dimension: %d\n", c.Dimension())
	return nil
}

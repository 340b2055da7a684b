// ABOUTME: Root command and global flags for the answerbot CLI
// ABOUTME: Wires subcommands and validates verbose/quiet/format before any run
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Global flags shared by every subcommand
var (
	verbose        bool
	quiet          bool
	outputFormat   string
	corpusLocation string
)

const banner = `
 █████╗ ███╗   ██╗███████╗██╗    ██╗███████╗██████╗ ██████╗  ██████╗ ████████╗
██╔══██╗████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗██╔══██╗██╔═══██╗╚══██╔══╝
███████║██╔██╗ ██║███████╗██║ █╗ ██║█████╗  ██████╔╝██████╔╝██║   ██║   ██║
██╔══██║██║╚██╗██║╚════██║██║███╗██║██╔══╝  ██╔══██╗██╔══██╗██║   ██║   ██║
██║  ██║██║ ╚████║███████║╚███╔███╔╝███████╗██║  ██║██████╔╝╚██████╔╝   ██║
╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═╝  ╚═╝╚═════╝  ╚═════╝    ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answerbot",
		Short: "Ask questions about the pilot labor contract",
		Long: banner + `
Answerbot answers questions about a collective bargaining agreement.

The contract is stored pre-split and pre-embedded. Each question is embedded,
the most related contract sections are packed into a prompt under a token
budget, and a chat model answers from those sections only.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("--format must be auto, text, or json, got %q", outputFormat)
			}
			// Load .env file if it exists (for API keys)
			_ = godotenv.Load()
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, or json")
	cmd.PersistentFlags().StringVar(&corpusLocation, "corpus", "", "Embedded contract CSV: local path or charm://path (overrides ANSWERBOT_EMBEDDINGS_PATH)")

	cmd.AddCommand(
		NewAskCmd(),
		NewSearchCmd(),
		NewChatCmd(),
		NewMCPCmd(),
		NewModelsCmd(),
		NewCorpusCmd(),
		NewEvalCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

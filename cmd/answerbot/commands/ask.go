// ABOUTME: CLI command to answer one question about the contract
// ABOUTME: Prints the answer and usage line, or only the assembled prompt
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/answerbot/internal/chat"
)

var (
	askModel      string
	askPromptOnly bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question about the contract",
		Long: `Answer a single question about the contract.

The question is embedded, the most related contract sections that fit the
token budget are packed into a prompt, and the chat model answers from them.
If the contract does not contain the answer, the model says so.

Examples:
  answerbot ask "How many vacation days does a 10 year captain get?"
  answerbot ask --model GPT-4 "What is the minimum day guarantee?"
  answerbot ask --prompt-only "reserve rest requirements"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askModel, "model", "", "Chat model: GPT-3.5 or GPT-4 (default from ANSWERBOT_GPT_MODEL)")
	cmd.Flags().BoolVar(&askPromptOnly, "prompt-only", false, "Print the assembled prompt without calling the chat model")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	model, err := resolveModel(askModel, a.model)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if askPromptOnly {
		client, err := a.openAI()
		if err != nil {
			return err
		}
		p, err := a.pipeline(ctx, model, client)
		if err != nil {
			return err
		}
		prompt, err := p.QueryMessage(ctx, question)
		if err != nil {
			return fmt.Errorf("building prompt: %w", err)
		}
		if outputFormat == "json" {
			return printJSON(cmd, map[string]string{
				"question": question,
				"model":    model.String(),
				"prompt":   prompt,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return nil
	}

	svc, err := a.service(ctx, model)
	if err != nil {
		return err
	}

	conv := chat.NewConversation(svc, a.cfg.SystemPrompt)
	turn, err := conv.Ask(ctx, model, question)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(cmd, turn)
	}

	fmt.Fprintln(cmd.OutOrStdout(), turn.Answer)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", turn.Summary())
	}
	return nil
}

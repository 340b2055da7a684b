// ABOUTME: CLI command that opens the interactive chat screen
// ABOUTME: One conversation per run; history and cost live until exit or clear
package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/harper/answerbot/internal/chat"
	"github.com/harper/answerbot/internal/tui"
)

var chatModel string

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat about the contract in the terminal",
		Long: `Open an interactive conversation about the contract.

Follow-up questions see the earlier exchanges. Each answer shows the model,
token count, and cost; the status line keeps the conversation total.

Keys:
  enter    send the question
  ctrl+t   switch between GPT-3.5 and GPT-4
  ctrl+l   clear the conversation
  ctrl+c   quit`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatModel, "model", "", "Starting chat model: GPT-3.5 or GPT-4")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	// The screen owns the terminal, so logs only go to ANSWERBOT_LOG_FILE
	a, err := newApp(io.Discard)
	if err != nil {
		return err
	}
	defer a.Close()

	model, err := resolveModel(chatModel, a.model)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := a.service(ctx, model)
	if err != nil {
		return err
	}

	return tui.Run(ctx, chat.NewConversation(svc, a.cfg.SystemPrompt), model)
}

// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents ask about the contract via stdio
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/answerbot/internal/chat"
	"github.com/harper/answerbot/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs answerbot as an MCP (Model Context Protocol) server, giving LLM
agents like Claude ask_contract, search_contract, and reset_conversation
tools over stdio. The server keeps one conversation for its lifetime.

Logs go to stderr (and ANSWERBOT_LOG_FILE when set); stdout carries the protocol.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  answerbot mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "answerbot": {
  #       "command": "answerbot",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := a.service(ctx, a.model)
	if err != nil {
		return err
	}

	handlers, err := mcp.NewHandlers(
		chat.NewConversation(svc, a.cfg.SystemPrompt),
		svc.Pipeline(),
		a.model,
		a.cfg.DocumentName,
		a.logger.Logger,
	)
	if err != nil {
		return err
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Contract Answerbot",
		versionInfo.Version,
		mcpserver.WithToolCapabilities(false),
	)
	mcp.RegisterTools(server, handlers)

	a.logger.Info("MCP server starting on stdio", "model", a.model.String(), "corpus", a.cfg.EmbeddingsPath)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

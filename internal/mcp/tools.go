// ABOUTME: MCP tool definitions and registration for the contract answerbot
// ABOUTME: Exposes ask, search, and reset over the Model Context Protocol
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. Arguments are checked
// against each tool's input schema before its handler runs.
func RegisterTools(server *mcpserver.MCPServer, handlers *Handlers) {
	for _, t := range tools(handlers) {
		server.AddTool(t.tool, validated(t.tool, t.handler))
	}
}

type toolEntry struct {
	tool    mcp.Tool
	handler mcpserver.ToolHandlerFunc
}

func tools(handlers *Handlers) []toolEntry {
	// ask_contract - answer a question inside the server's conversation
	ask := mcp.Tool{
		Name:        "ask_contract",
		Description: "Answer a question about the " + handlers.documentName + " using the most relevant contract sections. Follow-up questions share one conversation until reset_conversation is called.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the contract",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Chat model: GPT-3.5 or GPT-4 (default: " + handlers.defaultModel.String() + ")",
					"enum":        modelNames(),
				},
			},
			Required: []string{"question"},
		},
	}

	// search_contract - ranked contract passages without calling the chat model
	search := mcp.Tool{
		Name:        "search_contract",
		Description: "Find the contract sections most related to a query, ranked by embedding similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_n": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of sections to return (default: 5)",
					"default":     DefaultSearchResults,
				},
			},
			Required: []string{"query"},
		},
	}

	// reset_conversation - start over
	reset := mcp.Tool{
		Name:        "reset_conversation",
		Description: "Clear the conversation history and running cost.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}

	return []toolEntry{
		{ask, handlers.AskContract},
		{search, handlers.SearchContract},
		{reset, handlers.ResetConversation},
	}
}

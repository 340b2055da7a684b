// ABOUTME: MCP tool handler implementations for the contract answerbot
// ABOUTME: Tool failures are returned as tool errors, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/answerbot/internal/models"
	"github.com/harper/answerbot/internal/retrieval"
)

// DefaultSearchResults is the search_contract top_n when none is given
const DefaultSearchResults = 5

// Conversation is the server-owned chat the ask and reset tools act on
type Conversation interface {
	Ask(ctx context.Context, model models.ChatModel, question string) (*models.Turn, error)
	Reset()
	TotalCost() float64
}

// Searcher ranks contract sections against a query
type Searcher interface {
	Search(ctx context.Context, query string) ([]retrieval.RankedResult, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	conversation Conversation
	searcher     Searcher
	defaultModel models.ChatModel
	documentName string
	logger       *log.Logger
}

// NewHandlers wires tool handlers to a conversation and searcher
func NewHandlers(conversation Conversation, searcher Searcher, defaultModel models.ChatModel, documentName string, logger *log.Logger) (*Handlers, error) {
	if conversation == nil || searcher == nil {
		return nil, errors.New("conversation and searcher are required")
	}
	if !defaultModel.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownChatModel, int(defaultModel))
	}
	if documentName == "" {
		documentName = retrieval.DefaultDocumentName
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{
		conversation: conversation,
		searcher:     searcher,
		defaultModel: defaultModel,
		documentName: documentName,
		logger:       logger,
	}, nil
}

// askResponse is the structured part of an ask_contract result
type askResponse struct {
	Answer    string       `json:"answer"`
	Model     string       `json:"model"`
	Usage     models.Usage `json:"usage"`
	Cost      float64      `json:"cost"`
	TotalCost float64      `json:"total_cost"`
	Summary   string       `json:"summary"`
}

// AskContract handles the ask_contract tool
func (h *Handlers) AskContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	model := h.defaultModel
	if name := request.GetString("model", ""); name != "" {
		model, err = models.ParseChatModel(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	turn, err := h.conversation.Ask(ctx, model, question)
	if err != nil {
		h.logger.Warn("ask_contract failed", "model", model.String(), "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to answer: %v", err)), nil
	}

	responseJSON, err := json.Marshal(askResponse{
		Answer:    turn.Answer,
		Model:     turn.Model.String(),
		Usage:     turn.Usage,
		Cost:      turn.Cost,
		TotalCost: h.conversation.TotalCost(),
		Summary:   turn.Summary(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchContract handles the search_contract tool
func (h *Handlers) SearchContract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	topN := request.GetInt("top_n", DefaultSearchResults)
	if topN <= 0 {
		return mcp.NewToolResultError("top_n must be a positive number"), nil
	}

	ranked, err := h.searcher.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"query":   query,
		"results": ranked,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ResetConversation handles the reset_conversation tool
func (h *Handlers) ResetConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.conversation.Reset()
	return mcp.NewToolResultText(`{"status":"cleared"}`), nil
}

func modelNames() []string {
	all := models.ChatModels()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.String()
	}
	return names
}

// ABOUTME: Tests for MCP tool handlers and registration
// ABOUTME: Fake conversation and searcher stand in for the OpenAI-backed pipeline
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/answerbot/internal/models"
	"github.com/harper/answerbot/internal/retrieval"
)

type fakeConversation struct {
	err    error
	model  models.ChatModel
	asked  string
	cost   float64
	resets int
}

func (f *fakeConversation) Ask(_ context.Context, model models.ChatModel, question string) (*models.Turn, error) {
	f.model = model
	f.asked = question
	if f.err != nil {
		return nil, f.err
	}
	turn, err := models.NewTurn(question, "prompt", model, models.Completion{
		Content: "Article 12 covers vacation.",
		Usage:   models.Usage{PromptTokens: 1000, CompletionTokens: 1000, TotalTokens: 2000},
	})
	if err != nil {
		return nil, err
	}
	f.cost += turn.Cost
	return turn, nil
}

func (f *fakeConversation) Reset()             { f.resets++; f.cost = 0 }
func (f *fakeConversation) TotalCost() float64 { return f.cost }

type fakeSearcher struct {
	results []retrieval.RankedResult
	err     error
}

func (f *fakeSearcher) Search(context.Context, string) ([]retrieval.RankedResult, error) {
	return f.results, f.err
}

func newHandlers(t *testing.T, conv *fakeConversation, s *fakeSearcher) *Handlers {
	t.Helper()
	h, err := NewHandlers(conv, s, models.GPT35Turbo, "", nil)
	if err != nil {
		t.Fatalf("NewHandlers() error = %v", err)
	}
	return h
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestAskContract(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		convErr   error
		wantError bool
		wantModel models.ChatModel
	}{
		{name: "default model", args: map[string]any{"question": "vacation?"}, wantModel: models.GPT35Turbo},
		{name: "label", args: map[string]any{"question": "vacation?", "model": "GPT-4"}, wantModel: models.GPT4},
		{name: "api name", args: map[string]any{"question": "vacation?", "model": "gpt-4"}, wantModel: models.GPT4},
		{name: "unknown model", args: map[string]any{"question": "vacation?", "model": "gpt-5"}, wantError: true},
		{name: "missing question", args: map[string]any{}, wantError: true},
		{name: "wrong type", args: map[string]any{"question": 12}, wantError: true},
		{name: "conversation failure", args: map[string]any{"question": "q"}, convErr: errors.New("boom"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConversation{err: tt.convErr}
			h := newHandlers(t, conv, &fakeSearcher{})

			result, err := h.AskContract(context.Background(), callRequest("ask_contract", tt.args))
			if err != nil {
				t.Fatalf("AskContract() protocol error = %v", err)
			}
			if result.IsError != tt.wantError {
				t.Fatalf("IsError = %v, want %v (%s)", result.IsError, tt.wantError, resultText(t, result))
			}
			if tt.wantError {
				return
			}

			var resp askResponse
			if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if conv.model != tt.wantModel {
				t.Errorf("asked with %v, want %v", conv.model, tt.wantModel)
			}
			if resp.Answer != "Article 12 covers vacation." {
				t.Errorf("Answer = %q", resp.Answer)
			}
			if resp.Model != tt.wantModel.String() {
				t.Errorf("Model = %q, want %q", resp.Model, tt.wantModel.String())
			}
			if !strings.HasPrefix(resp.Summary, "Model used: "+tt.wantModel.String()) {
				t.Errorf("Summary = %q", resp.Summary)
			}
			if resp.TotalCost != resp.Cost {
				t.Errorf("TotalCost = %v, want %v after one turn", resp.TotalCost, resp.Cost)
			}
		})
	}
}

func TestSearchContract(t *testing.T) {
	results := []retrieval.RankedResult{
		{Text: "Article 12", Relatedness: 0.9},
		{Text: "Article 25", Relatedness: 0.8},
		{Text: "Article 3", Relatedness: 0.1},
	}

	tests := []struct {
		name      string
		args      map[string]any
		err       error
		wantCount int
		wantError bool
	}{
		{name: "default top_n", args: map[string]any{"query": "vacation"}, wantCount: 3},
		{name: "truncated", args: map[string]any{"query": "vacation", "top_n": 2}, wantCount: 2},
		{name: "float top_n", args: map[string]any{"query": "vacation", "top_n": 1.0}, wantCount: 1},
		{name: "zero top_n", args: map[string]any{"query": "vacation", "top_n": 0}, wantError: true},
		{name: "missing query", args: map[string]any{}, wantError: true},
		{name: "search failure", args: map[string]any{"query": "q"}, err: retrieval.ErrEmbeddingService, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlers(t, &fakeConversation{}, &fakeSearcher{results: results, err: tt.err})

			result, err := h.SearchContract(context.Background(), callRequest("search_contract", tt.args))
			if err != nil {
				t.Fatalf("SearchContract() protocol error = %v", err)
			}
			if result.IsError != tt.wantError {
				t.Fatalf("IsError = %v, want %v (%s)", result.IsError, tt.wantError, resultText(t, result))
			}
			if tt.wantError {
				return
			}

			var resp struct {
				Query   string                   `json:"query"`
				Results []retrieval.RankedResult `json:"results"`
			}
			if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if len(resp.Results) != tt.wantCount {
				t.Errorf("results = %d, want %d", len(resp.Results), tt.wantCount)
			}
			if resp.Results[0].Text != "Article 12" {
				t.Errorf("first result = %q, want Article 12", resp.Results[0].Text)
			}
		})
	}
}

func TestResetConversation(t *testing.T) {
	conv := &fakeConversation{cost: 0.5}
	h := newHandlers(t, conv, &fakeSearcher{})

	result, err := h.ResetConversation(context.Background(), callRequest("reset_conversation", nil))
	if err != nil || result.IsError {
		t.Fatalf("ResetConversation() = %v, %v", result, err)
	}
	if conv.resets != 1 || conv.TotalCost() != 0 {
		t.Errorf("resets = %d, cost = %v; want 1, 0", conv.resets, conv.TotalCost())
	}
}

func TestNewHandlers_Validation(t *testing.T) {
	if _, err := NewHandlers(nil, &fakeSearcher{}, models.GPT35Turbo, "", nil); err == nil {
		t.Error("expected error for nil conversation")
	}
	if _, err := NewHandlers(&fakeConversation{}, nil, models.GPT35Turbo, "", nil); err == nil {
		t.Error("expected error for nil searcher")
	}
	if _, err := NewHandlers(&fakeConversation{}, &fakeSearcher{}, models.ChatModel(0), "", nil); !errors.Is(err, models.ErrUnknownChatModel) {
		t.Errorf("error = %v, want ErrUnknownChatModel", err)
	}
}

func TestRegisterTools(t *testing.T) {
	server := mcpserver.NewMCPServer("answerbot", "test", mcpserver.WithToolCapabilities(false))
	RegisterTools(server, newHandlers(t, &fakeConversation{}, &fakeSearcher{}))

	raw := server.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal tools/list response: %v", err)
	}

	for _, name := range []string{"ask_contract", "search_contract", "reset_conversation"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("tools/list response missing %s: %s", name, data)
		}
	}
	if !strings.Contains(string(data), "fedex pilot bargaining agreement") {
		t.Error("ask_contract description should name the document")
	}
}

// ABOUTME: Chat message, token usage, and completion value types
// ABOUTME: Shared by the LLM client, chat session, and UI layers
package models

// Chat roles understood by the completion endpoint
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a chat completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage holds the token counters reported by the completion endpoint
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the assistant reply plus its usage
type Completion struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// ABOUTME: Conversation pairs one session with the service that answers in it
// ABOUTME: The shape the terminal UI and MCP server drive
package chat

import (
	"context"

	"github.com/harper/answerbot/internal/models"
)

// Conversation is a long-lived session bound to a service
type Conversation struct {
	service *Service
	session *Session
}

// NewConversation starts a fresh session seeded with systemPrompt
func NewConversation(service *Service, systemPrompt string) *Conversation {
	return &Conversation{service: service, session: NewSession(systemPrompt)}
}

// Ask answers question with model inside the conversation
func (c *Conversation) Ask(ctx context.Context, model models.ChatModel, question string) (*models.Turn, error) {
	return c.service.Respond(ctx, c.session, model, question)
}

// Reset clears the conversation history and cost
func (c *Conversation) Reset() {
	c.session.Clear()
}

// TotalCost returns the conversation's cost since the last reset
func (c *Conversation) TotalCost() float64 {
	return c.session.TotalCost()
}

// Session exposes the underlying session
func (c *Conversation) Session() *Session {
	return c.session
}

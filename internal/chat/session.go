// ABOUTME: Chat session holding message history, answered turns, and running cost
// ABOUTME: Owned by the caller and safe for concurrent use
package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harper/answerbot/internal/models"
)

// DefaultSystemPrompt opens every new or cleared conversation
const DefaultSystemPrompt = "You answer questions about the fedex pilot contract."

// Session is one conversation with the completion model
type Session struct {
	mu           sync.RWMutex
	id           string
	systemPrompt string
	createdAt    time.Time
	messages     []models.Message
	turns        []*models.Turn
	totalCost    float64
}

// NewSession starts a conversation seeded with the system prompt.
// A blank prompt falls back to DefaultSystemPrompt.
func NewSession(systemPrompt string) *Session {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}
	s := &Session{
		id:           generateSessionID(),
		systemPrompt: systemPrompt,
		createdAt:    time.Now().UTC(),
	}
	s.reset()
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// SystemPrompt returns the prompt every conversation starts from
func (s *Session) SystemPrompt() string {
	return s.systemPrompt
}

// Messages returns a copy of the conversation history
func (s *Session) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Turns returns the answered turns, oldest first
func (s *Session) Turns() []*models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// TotalCost returns the summed cost of every turn since the last clear
func (s *Session) TotalCost() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalCost
}

// Clear drops the history back to the system prompt and zeroes the cost
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// record commits a completed turn. Callers hold no lock.
func (s *Session) record(turn *models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages,
		models.Message{Role: models.RoleUser, Content: turn.Prompt},
		models.Message{Role: models.RoleAssistant, Content: turn.Answer},
	)
	s.turns = append(s.turns, turn)
	s.totalCost += turn.Cost
}

func (s *Session) reset() {
	s.messages = []models.Message{{Role: models.RoleSystem, Content: s.systemPrompt}}
	s.turns = nil
	s.totalCost = 0
}

// generateSessionID generates a unique session identifier
func generateSessionID() string {
	return fmt.Sprintf("session_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

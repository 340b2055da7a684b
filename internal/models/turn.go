// ABOUTME: Turn records one answered question in a chat session
// ABOUTME: Holds the question, assembled prompt, answer, model, usage and cost
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Turn is a single question/answer exchange
type Turn struct {
	TurnID    string    `json:"turn_id"`
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Prompt    string    `json:"prompt"`
	Answer    string    `json:"answer"`
	Model     ChatModel `json:"model"`
	Usage     Usage     `json:"usage"`
	Cost      float64   `json:"cost"`
}

// NewTurn builds a Turn from a completed exchange and prices it with the model table
func NewTurn(question, prompt string, model ChatModel, completion Completion) (*Turn, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.New("question cannot be empty")
	}
	if !model.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChatModel, int(model))
	}
	return &Turn{
		TurnID:    generateTurnID(),
		Timestamp: time.Now().UTC(),
		Question:  question,
		Prompt:    prompt,
		Answer:    completion.Content,
		Model:     model,
		Usage:     completion.Usage,
		Cost:      model.Cost(completion.Usage),
	}, nil
}

// Summary renders the per-answer usage line shown under each reply
func (t *Turn) Summary() string {
	return fmt.Sprintf("Model used: %s; Number of tokens: %d; Cost: $%.5f", t.Model, t.Usage.TotalTokens, t.Cost)
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

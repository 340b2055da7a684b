// ABOUTME: Service runs one chat turn: retrieve and budget, complete, then record
// ABOUTME: A failed turn leaves the session exactly as it was
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harper/answerbot/internal/models"
	"github.com/harper/answerbot/internal/retrieval"
)

// ErrEmptyQuestion is returned for blank questions before any network call
var ErrEmptyQuestion = errors.New("question cannot be empty")

// Completer is the chat completion contract
type Completer interface {
	CreateChatCompletion(ctx context.Context, model string, messages []models.Message) (*models.Completion, error)
}

// Service answers questions against the contract corpus
type Service struct {
	pipeline  *retrieval.Pipeline
	completer Completer
	logger    *log.Logger
}

// NewService wires a pipeline to a completion client
func NewService(pipeline *retrieval.Pipeline, completer Completer, logger *log.Logger) (*Service, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if completer == nil {
		return nil, errors.New("completer is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{pipeline: pipeline, completer: completer, logger: logger}, nil
}

// Pipeline returns the retrieval pipeline the service answers with
func (s *Service) Pipeline() *retrieval.Pipeline {
	return s.pipeline
}

// Respond answers question with model, appending the exchange to sess on success
func (s *Service) Respond(ctx context.Context, sess *Session, model models.ChatModel, question string) (*models.Turn, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	p, err := s.pipeline.WithModel(model)
	if err != nil {
		return nil, err
	}

	prompt, err := p.QueryMessage(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	messages := append(sess.Messages(), models.Message{Role: models.RoleUser, Content: prompt})
	completion, err := s.completer.CreateChatCompletion(ctx, model.APIName(), messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	turn, err := models.NewTurn(question, prompt, model, *completion)
	if err != nil {
		return nil, err
	}
	sess.record(turn)

	s.logger.Info("answered question",
		"session", sess.ID(),
		"model", model.String(),
		"tokens", turn.Usage.TotalTokens,
		"cost", fmt.Sprintf("%.5f", turn.Cost))

	return turn, nil
}

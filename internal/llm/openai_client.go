// ABOUTME: OpenAI client for query embeddings and chat completions
// ABOUTME: Chat completions retry with exponential backoff; embeddings make a single attempt
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/answerbot/internal/models"
	"github.com/harper/answerbot/internal/util"
)

const (
	// DefaultTimeout bounds each request to the API
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of chat completion retries after the first attempt
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the base delay for backoff between retries
	DefaultRetryDelay = 2 * time.Second
)

// ErrEmptyResponse is returned when the API answers without data
var ErrEmptyResponse = errors.New("empty response from OpenAI")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Logger     *log.Logger
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     *openai.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logger     *log.Logger
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = config.BaseURL
	}
	oc.HTTPClient = &http.Client{}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		logger:     logger,
	}, nil
}

// GetClient returns the underlying OpenAI client for direct use
func (c *OpenAIClient) GetClient() *openai.Client {
	return c.client
}

// CreateEmbedding embeds input with the given model in a single attempt
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, model, input string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{input},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("create embedding: %w", ErrEmptyResponse)
	}

	// Convert []float32 to []float64
	embedding32 := resp.Data[0].Embedding
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}

	return embedding64, nil
}

// CreateChatCompletion sends the conversation to the chat model and returns the first choice
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model string, messages []models.Message) (*models.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	var completion *models.Completion
	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(attemptCtx, req)
		if err != nil {
			if !retryable(err) {
				return util.Permanent(err)
			}
			c.logger.Warn("chat completion failed", "model", model, "error", err)
			return err
		}

		if len(resp.Choices) == 0 {
			return ErrEmptyResponse
		}

		completion = &models.Completion{
			Content: resp.Choices[0].Message.Content,
			Usage: models.Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}

	return completion, nil
}

// retryable reports whether an API error is worth another attempt
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return true
		case apiErr.HTTPStatusCode >= 500:
			return true
		case apiErr.HTTPStatusCode >= 400:
			return false
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return true
}

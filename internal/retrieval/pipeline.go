// ABOUTME: Retrieval-and-budgeting pipeline: embed the query, rank the corpus, assemble a prompt
// ABOUTME: Immutable after construction; one corpus can back many concurrent invocations
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harper/answerbot/internal/corpus"
	"github.com/harper/answerbot/internal/models"
)

// ErrEmbeddingService is the category for query embedding failures
var ErrEmbeddingService = errors.New("embedding service failed")

// DefaultEmbeddingModel is the model the contract corpus was embedded with
const DefaultEmbeddingModel = "text-embedding-ada-002"

// Embedder turns a query into a vector using a hosted embedding model
type Embedder interface {
	CreateEmbedding(ctx context.Context, model, input string) ([]float64, error)
}

// TokenizerFunc resolves a token counter for a completion model's API name
type TokenizerFunc func(model string) (TokenCounter, error)

// Options configures a Pipeline
type Options struct {
	Embedder       Embedder
	Tokenizer      TokenizerFunc
	Relatedness    Relatedness
	EmbeddingModel string
	ChatModel      models.ChatModel
	TopN           int
	TokenBudget    int
	DocumentName   string
	Logger         *log.Logger
}

// DefaultOptions returns Options with the stock models, top N, and budget.
// Embedder and Tokenizer must still be supplied.
func DefaultOptions() Options {
	return Options{
		Relatedness:    Cosine{},
		EmbeddingModel: DefaultEmbeddingModel,
		ChatModel:      models.DefaultChatModel,
		TopN:           DefaultTopN,
		TokenBudget:    DefaultTokenBudget,
		DocumentName:   DefaultDocumentName,
	}
}

// Pipeline answers "which contract text belongs in the prompt for this question"
type Pipeline struct {
	corpus       *corpus.Corpus
	embedder     Embedder
	tokenizer    TokenizerFunc
	relatedness  Relatedness
	embedModel   string
	chatModel    models.ChatModel
	topN         int
	budget       int
	introduction string
	logger       *log.Logger
}

// New validates opts and binds them to a loaded corpus
func New(c *corpus.Corpus, opts Options) (*Pipeline, error) {
	if c == nil {
		return nil, errors.New("corpus is required")
	}
	if opts.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if opts.Tokenizer == nil {
		return nil, errors.New("tokenizer is required")
	}
	if strings.TrimSpace(opts.EmbeddingModel) == "" {
		return nil, errors.New("embedding model is required")
	}
	if !opts.ChatModel.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownChatModel, int(opts.ChatModel))
	}
	if opts.TopN <= 0 {
		return nil, fmt.Errorf("top N must be positive, got %d", opts.TopN)
	}
	if opts.TokenBudget < 0 {
		return nil, fmt.Errorf("token budget must not be negative, got %d", opts.TokenBudget)
	}
	if opts.Relatedness == nil {
		opts.Relatedness = Cosine{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Pipeline{
		corpus:       c,
		embedder:     opts.Embedder,
		tokenizer:    opts.Tokenizer,
		relatedness:  opts.Relatedness,
		embedModel:   opts.EmbeddingModel,
		chatModel:    opts.ChatModel,
		topN:         opts.TopN,
		budget:       opts.TokenBudget,
		introduction: Introduction(opts.DocumentName),
		logger:       opts.Logger,
	}, nil
}

// WithModel returns a copy of p that budgets tokens for model m
func (p *Pipeline) WithModel(m models.ChatModel) (*Pipeline, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownChatModel, int(m))
	}
	cp := *p
	cp.chatModel = m
	return &cp, nil
}

// ChatModel returns the completion model the token budget is measured for
func (p *Pipeline) ChatModel() models.ChatModel {
	return p.chatModel
}

// Corpus returns the shared read-only corpus
func (p *Pipeline) Corpus() *corpus.Corpus {
	return p.corpus
}

// EmbedQuery asks the embedding service for the query's vector
func (p *Pipeline) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	vec, err := p.embedder.CreateEmbedding(ctx, p.embedModel, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingService, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ErrEmbeddingService)
	}
	if dim := p.corpus.Dimension(); dim != 0 && len(vec) != dim {
		return nil, fmt.Errorf("%w: query embedding has dimension %d, corpus has %d", ErrEmbeddingService, len(vec), dim)
	}
	return vec, nil
}

// Search embeds the query and ranks the corpus against it
func (p *Pipeline) Search(ctx context.Context, query string) ([]RankedResult, error) {
	vec, err := p.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	ranked := Rank(vec, p.corpus, p.relatedness, p.topN)
	if len(ranked) > 0 {
		p.logger.Debug("ranked corpus", "chunks", p.corpus.Len(), "kept", len(ranked), "top", ranked[0].Relatedness)
	}
	return ranked, nil
}

// QueryMessage builds the user message for the completion model: introduction,
// the most related contract sections that fit the budget, and the question.
func (p *Pipeline) QueryMessage(ctx context.Context, query string) (string, error) {
	ranked, err := p.Search(ctx, query)
	if err != nil {
		return "", err
	}

	counter, err := p.tokenizer(p.chatModel.APIName())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenization, err)
	}

	prompt, sections, err := assemble(p.introduction, query, ranked, counter, p.budget)
	if err != nil {
		return "", err
	}

	p.logger.Debug("assembled prompt", "model", p.chatModel.APIName(), "sections", sections, "budget", p.budget)
	return prompt, nil
}

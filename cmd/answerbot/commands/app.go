// ABOUTME: Runtime wiring shared by commands: config, logger, corpus, OpenAI, pipeline
// ABOUTME: Each command builds only the pieces it needs
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/harper/answerbot/internal/charm"
	"github.com/harper/answerbot/internal/chat"
	"github.com/harper/answerbot/internal/config"
	"github.com/harper/answerbot/internal/corpus"
	"github.com/harper/answerbot/internal/llm"
	"github.com/harper/answerbot/internal/logging"
	"github.com/harper/answerbot/internal/models"
	"github.com/harper/answerbot/internal/retrieval"
	"github.com/harper/answerbot/internal/tokenizer"
)

// app holds what every command needs before it does real work
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	model  models.ChatModel
}

// newApp loads configuration and builds the logger. consoleLog is where log
// lines go besides the optional log file; nil means stderr.
func newApp(consoleLog io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if corpusLocation != "" {
		cfg.EmbeddingsPath = corpusLocation
	}

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	logger, err := logging.New(logging.Options{Level: level, File: cfg.LogFile, Output: consoleLog})
	if err != nil {
		return nil, err
	}

	model, err := cfg.ChatModel()
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, model: model}, nil
}

// Close releases the log file
func (a *app) Close() error {
	return a.logger.Close()
}

// corpusSource resolves the configured location to a local or Charm FS source
func (a *app) corpusSource() (corpus.Source, error) {
	path, ok := charm.ParseLocation(a.cfg.EmbeddingsPath)
	if !ok {
		return corpus.FileSource{Path: a.cfg.EmbeddingsPath}, nil
	}
	client, err := a.charmClient()
	if err != nil {
		return nil, err
	}
	return client.Source(path), nil
}

func (a *app) charmClient() (*charm.Client, error) {
	return charm.NewClient(&charm.Config{Host: a.cfg.CharmHost})
}

// loadCorpus reads the embedded contract once per command
func (a *app) loadCorpus(ctx context.Context) (*corpus.Corpus, error) {
	src, err := a.corpusSource()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c, err := corpus.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	a.logger.Info("loaded corpus",
		"source", src.String(),
		"chunks", c.Len(),
		"dimension", c.Dimension(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return c, nil
}

// openAI builds the OpenAI client; network commands fail fast without a key
func (a *app) openAI() (*llm.OpenAIClient, error) {
	if a.cfg.OpenAIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	return llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:     a.cfg.OpenAIKey,
		BaseURL:    a.cfg.OpenAIBaseURL,
		Timeout:    a.cfg.Timeout,
		MaxRetries: a.cfg.MaxRetries,
		RetryDelay: a.cfg.RetryDelay,
		Logger:     a.logger.Logger,
	})
}

// pipeline loads the corpus and binds it to the embedding service and tokenizer
func (a *app) pipeline(ctx context.Context, model models.ChatModel, client *llm.OpenAIClient) (*retrieval.Pipeline, error) {
	c, err := a.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	opts := retrieval.DefaultOptions()
	opts.Embedder = client
	opts.Tokenizer = tokenizer.Counter
	opts.EmbeddingModel = a.cfg.EmbeddingsModel
	opts.ChatModel = model
	opts.TopN = a.cfg.TopN
	opts.TokenBudget = a.cfg.TokenBudget
	opts.DocumentName = a.cfg.DocumentName
	opts.Logger = a.logger.Logger

	return retrieval.New(c, opts)
}

// service builds the full answering stack for model
func (a *app) service(ctx context.Context, model models.ChatModel) (*chat.Service, error) {
	client, err := a.openAI()
	if err != nil {
		return nil, err
	}
	p, err := a.pipeline(ctx, model, client)
	if err != nil {
		return nil, err
	}
	return chat.NewService(p, client, a.logger.Logger)
}

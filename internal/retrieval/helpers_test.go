// ABOUTME: Test doubles shared by the retrieval tests
// ABOUTME: Word-count tokenizer and scripted embedder
package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/answerbot/internal/corpus"
)

// wordCounter counts whitespace-separated fields as tokens
type wordCounter struct {
	calls int
}

func (w *wordCounter) CountTokens(text string) (int, error) {
	w.calls++
	return len(strings.Fields(text)), nil
}

type failingCounter struct{}

func (failingCounter) CountTokens(string) (int, error) {
	return 0, errors.New("encoding exploded")
}

// fakeEmbedder returns a fixed vector and records what it was asked
type fakeEmbedder struct {
	vector []float64
	err    error
	model  string
	input  string
	calls  int
}

func (f *fakeEmbedder) CreateEmbedding(_ context.Context, model, input string) ([]float64, error) {
	f.calls++
	f.model = model
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func wordTokenizer(string) (TokenCounter, error) {
	return &wordCounter{}, nil
}

func mustCorpus(t *testing.T, chunks ...corpus.Chunk) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(chunks...)
	if err != nil {
		t.Fatalf("corpus.New() error = %v", err)
	}
	return c
}

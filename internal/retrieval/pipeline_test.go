// ABOUTME: Tests for the end-to-end retrieval pipeline
// ABOUTME: Embedding failures, ranking scenario, model binding, and validation
package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/answerbot/internal/corpus"
	"github.com/harper/answerbot/internal/models"
)

func newTestPipeline(t *testing.T, c *corpus.Corpus, emb Embedder, mutate func(*Options)) *Pipeline {
	t.Helper()
	opts := DefaultOptions()
	opts.Embedder = emb
	opts.Tokenizer = wordTokenizer
	if mutate != nil {
		mutate(&opts)
	}
	p, err := New(c, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func abCorpus(t *testing.T) *corpus.Corpus {
	return mustCorpus(t,
		corpus.Chunk{Text: "B is about vacation", Embedding: []float64{0, 1}},
		corpus.Chunk{Text: "A is about deadheads", Embedding: []float64{1, 0}},
	)
}

func TestPipeline_QueryMessage(t *testing.T) {
	emb := &fakeEmbedder{vector: []float64{1, 0}}
	p := newTestPipeline(t, abCorpus(t), emb, nil)

	prompt, err := p.QueryMessage(context.Background(), "Which deadheads qualify?")
	if err != nil {
		t.Fatalf("QueryMessage() error = %v", err)
	}

	if emb.model != DefaultEmbeddingModel {
		t.Errorf("embedding model = %q, want %q", emb.model, DefaultEmbeddingModel)
	}
	if emb.input != "Which deadheads qualify?" {
		t.Errorf("embedding input = %q", emb.input)
	}
	if !strings.HasPrefix(prompt, Introduction(DefaultDocumentName)) {
		t.Error("prompt should start with the introduction")
	}
	a := strings.Index(prompt, "A is about deadheads")
	b := strings.Index(prompt, "B is about vacation")
	if a < 0 || b < 0 || a > b {
		t.Errorf("expected A before B in prompt, got A=%d B=%d", a, b)
	}
	if !strings.HasSuffix(prompt, "Question: Which deadheads qualify?") {
		t.Errorf("prompt should end with the question: %q", prompt)
	}
}

func TestPipeline_Search(t *testing.T) {
	p := newTestPipeline(t, abCorpus(t), &fakeEmbedder{vector: []float64{1, 0}}, func(o *Options) { o.TopN = 1 })

	ranked, err := p.Search(context.Background(), "deadheads")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(ranked) != 1 || ranked[0].Text != "A is about deadheads" || ranked[0].Relatedness != 1.0 {
		t.Errorf("Search() = %+v, want only A with relatedness 1.0", ranked)
	}
}

func TestPipeline_EmbeddingFailures(t *testing.T) {
	tests := []struct {
		name string
		emb  *fakeEmbedder
	}{
		{"service error", &fakeEmbedder{err: errors.New("502 bad gateway")}},
		{"empty vector", &fakeEmbedder{vector: []float64{}}},
		{"dimension mismatch", &fakeEmbedder{vector: []float64{1, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, abCorpus(t), tt.emb, nil)
			prompt, err := p.QueryMessage(context.Background(), "q")
			if !errors.Is(err, ErrEmbeddingService) {
				t.Fatalf("error = %v, want ErrEmbeddingService", err)
			}
			if prompt != "" {
				t.Errorf("prompt = %q, want empty on failure", prompt)
			}
		})
	}
}

func TestPipeline_EmptyCorpus(t *testing.T) {
	p := newTestPipeline(t, mustCorpus(t), &fakeEmbedder{vector: []float64{0.1, 0.2, 0.3}}, nil)

	prompt, err := p.QueryMessage(context.Background(), "q")
	if err != nil {
		t.Fatalf("QueryMessage() error = %v", err)
	}
	if prompt != Introduction(DefaultDocumentName)+"\n\nQuestion: q" {
		t.Errorf("prompt = %q, want introduction + question only", prompt)
	}
}

func TestPipeline_ZeroBudget(t *testing.T) {
	p := newTestPipeline(t, abCorpus(t), &fakeEmbedder{vector: []float64{1, 0}}, func(o *Options) { o.TokenBudget = 0 })

	prompt, err := p.QueryMessage(context.Background(), "q")
	if err != nil {
		t.Fatalf("QueryMessage() error = %v", err)
	}
	if strings.Contains(prompt, "Contract article section:") {
		t.Errorf("zero budget should admit no sections: %q", prompt)
	}
}

func TestPipeline_TokenizerResolution(t *testing.T) {
	var asked []string
	tokenizer := func(model string) (TokenCounter, error) {
		asked = append(asked, model)
		if model == "gpt-4" {
			return nil, errors.New("no encoding for model gpt-4")
		}
		return &wordCounter{}, nil
	}

	p := newTestPipeline(t, abCorpus(t), &fakeEmbedder{vector: []float64{1, 0}}, func(o *Options) { o.Tokenizer = tokenizer })

	if _, err := p.QueryMessage(context.Background(), "q"); err != nil {
		t.Fatalf("QueryMessage() error = %v", err)
	}

	gpt4, err := p.WithModel(models.GPT4)
	if err != nil {
		t.Fatalf("WithModel() error = %v", err)
	}
	if _, err := gpt4.QueryMessage(context.Background(), "q"); !errors.Is(err, ErrTokenization) {
		t.Fatalf("error = %v, want ErrTokenization", err)
	}

	if len(asked) != 2 || asked[0] != "gpt-3.5-turbo" || asked[1] != "gpt-4" {
		t.Errorf("tokenizer asked for %v, want [gpt-3.5-turbo gpt-4]", asked)
	}
	if p.ChatModel() != models.GPT35Turbo {
		t.Error("WithModel should not modify the original pipeline")
	}
}

func TestPipeline_WithModelInvalid(t *testing.T) {
	p := newTestPipeline(t, abCorpus(t), &fakeEmbedder{vector: []float64{1, 0}}, nil)
	if _, err := p.WithModel(models.ChatModel(0)); !errors.Is(err, models.ErrUnknownChatModel) {
		t.Errorf("error = %v, want ErrUnknownChatModel", err)
	}
}

func TestNew_Validation(t *testing.T) {
	c := abCorpus(t)
	emb := &fakeEmbedder{vector: []float64{1, 0}}

	tests := []struct {
		name   string
		corpus *corpus.Corpus
		mutate func(*Options)
	}{
		{"nil corpus", nil, nil},
		{"missing embedder", c, func(o *Options) { o.Embedder = nil }},
		{"missing tokenizer", c, func(o *Options) { o.Tokenizer = nil }},
		{"blank embedding model", c, func(o *Options) { o.EmbeddingModel = " " }},
		{"invalid chat model", c, func(o *Options) { o.ChatModel = models.ChatModel(7) }},
		{"zero top N", c, func(o *Options) { o.TopN = 0 }},
		{"negative budget", c, func(o *Options) { o.TokenBudget = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Embedder = emb
			opts.Tokenizer = wordTokenizer
			if tt.mutate != nil {
				tt.mutate(&opts)
			}
			if _, err := New(tt.corpus, opts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.EmbeddingModel != "text-embedding-ada-002" {
		t.Errorf("EmbeddingModel = %s", opts.EmbeddingModel)
	}
	if opts.ChatModel != models.GPT35Turbo {
		t.Errorf("ChatModel = %v", opts.ChatModel)
	}
	if opts.TopN != 100 {
		t.Errorf("TopN = %d, want 100", opts.TopN)
	}
	if opts.TokenBudget != 3596 {
		t.Errorf("TokenBudget = %d, want 3596", opts.TokenBudget)
	}
}

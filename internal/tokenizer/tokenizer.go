// ABOUTME: Model-keyed token counting backed by tiktoken
// ABOUTME: BPE ranks ship with the binary via the offline loader; encodings are cached per model
package tokenizer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/harper/answerbot/internal/retrieval"
)

// ErrUnknownModel is returned for models tiktoken has no encoding for
var ErrUnknownModel = errors.New("no tokenizer for model")

var (
	loaderOnce sync.Once
	cacheMu    sync.Mutex
	cache      = map[string]*Tokenizer{}
)

// Tokenizer counts tokens the way a specific completion model does
type Tokenizer struct {
	model    string
	encoding *tiktoken.Tiktoken
}

// ForModel returns the (cached) tokenizer for a completion model's API name
func ForModel(model string) (*Tokenizer, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
	})

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if tok, ok := cache[model]; ok {
		return tok, nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownModel, model, err)
	}

	tok := &Tokenizer{model: model, encoding: enc}
	cache[model] = tok
	return tok, nil
}

// Counter adapts ForModel to the pipeline's tokenizer hook
func Counter(model string) (retrieval.TokenCounter, error) {
	tok, err := ForModel(model)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// Model returns the model this tokenizer was built for
func (t *Tokenizer) Model() string {
	return t.model
}

// CountTokens returns the number of tokens in text
func (t *Tokenizer) CountTokens(text string) (int, error) {
	return len(t.encoding.Encode(text, nil, nil)), nil
}

// ABOUTME: Corpus holds the pre-embedded contract chunks used for retrieval
// ABOUTME: Loaded once from a CSV source, read-only afterwards
package corpus

import (
	"errors"
	"fmt"
	"iter"
)

// ErrCorpusLoad is the category for every failure to produce a Corpus
var ErrCorpusLoad = errors.New("corpus load failed")

// Chunk is one unit of source text paired with its precomputed embedding.
// Chunks handed out by a Corpus must not be modified.
type Chunk struct {
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding"`
}

// Corpus is an ordered, immutable collection of chunks sharing one embedding dimension
type Corpus struct {
	chunks    []Chunk
	dimension int
}

// New builds a corpus from in-memory chunks, applying the same validation as Load
func New(chunks ...Chunk) (*Corpus, error) {
	c := &Corpus{chunks: make([]Chunk, 0, len(chunks))}
	for i, ch := range chunks {
		if err := c.add(ch); err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %w", ErrCorpusLoad, i, err)
		}
	}
	return c, nil
}

func (c *Corpus) add(ch Chunk) error {
	if len(ch.Embedding) == 0 {
		return errors.New("empty embedding")
	}
	if c.dimension == 0 {
		c.dimension = len(ch.Embedding)
	} else if len(ch.Embedding) != c.dimension {
		return fmt.Errorf("embedding dimension %d does not match corpus dimension %d", len(ch.Embedding), c.dimension)
	}
	c.chunks = append(c.chunks, ch)
	return nil
}

// All iterates the chunks in load order
func (c *Corpus) All() iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		for _, ch := range c.chunks {
			if !yield(ch) {
				return
			}
		}
	}
}

// Len returns the number of chunks
func (c *Corpus) Len() int {
	return len(c.chunks)
}

// Dimension returns the shared embedding length, or 0 for an empty corpus
func (c *Corpus) Dimension() int {
	return c.dimension
}

// ABOUTME: CSV loader for precomputed embeddings
// ABOUTME: Parses text and string-encoded embedding columns into a Corpus
package corpus

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	textColumn      = "text"
	embeddingColumn = "embedding"
)

// Source opens the raw tabular data behind a corpus
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads a corpus from the local filesystem
type FileSource struct {
	Path string
}

// Open opens the file at Path
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

func (s FileSource) String() string {
	return s.Path
}

// Load reads and parses a corpus from src. Every failure wraps ErrCorpusLoad.
func Load(ctx context.Context, src Source) (*Corpus, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrCorpusLoad, src, err)
	}
	defer func() { _ = rc.Close() }()

	c, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return c, nil
}

// LoadFile is Load for a local path
func LoadFile(path string) (*Corpus, error) {
	return Load(context.Background(), FileSource{Path: path})
}

// Parse reads a CSV with a header row naming at least "text" and "embedding".
// Extra columns, such as a pandas index column, are ignored.
func Parse(r io.Reader) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrCorpusLoad)
		}
		return nil, fmt.Errorf("%w: reading header: %w", ErrCorpusLoad, err)
	}

	textIdx, embIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case textColumn:
			textIdx = i
		case embeddingColumn:
			embIdx = i
		}
	}
	if textIdx < 0 || embIdx < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q columns, got %v", ErrCorpusLoad, textColumn, embeddingColumn, header)
	}

	c := &Corpus{}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorpusLoad, err)
		}

		embedding, err := ParseEmbedding(record[embIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorpusLoad, row, err)
		}
		if err := c.add(Chunk{Text: record[textIdx], Embedding: embedding}); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorpusLoad, row, err)
		}
	}
	return c, nil
}

// ParseEmbedding decodes a string-encoded numeric array such as "[0.12, -0.04]"
func ParseEmbedding(literal string) ([]float64, error) {
	var vec []float64
	if err := json.Unmarshal([]byte(strings.TrimSpace(literal)), &vec); err != nil {
		return nil, fmt.Errorf("parsing embedding %q: %w", abbreviate(literal, 32), err)
	}
	if vec == nil {
		return nil, fmt.Errorf("parsing embedding %q: not a list", abbreviate(literal, 32))
	}
	return vec, nil
}

func abbreviate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// ABOUTME: Linear-scan ranking of corpus chunks by relatedness to a query embedding
// ABOUTME: Stable descending sort truncated to the top N results
package retrieval

import (
	"slices"

	"github.com/harper/answerbot/internal/corpus"
)

// DefaultTopN is the number of ranked results kept when none is configured
const DefaultTopN = 100

// RankedResult is a chunk's text with its relatedness to the query
type RankedResult struct {
	Text        string  `json:"text"`
	Relatedness float64 `json:"relatedness"`
}

// Rank scores every chunk against queryEmbedding and returns at most topN
// results, most related first. Ties keep corpus order.
func Rank(queryEmbedding []float64, c *corpus.Corpus, rel Relatedness, topN int) []RankedResult {
	if rel == nil {
		rel = Cosine{}
	}

	results := make([]RankedResult, 0, c.Len())
	for ch := range c.All() {
		results = append(results, RankedResult{
			Text:        ch.Text,
			Relatedness: rel.Score(queryEmbedding, ch.Embedding),
		})
	}

	slices.SortStableFunc(results, func(a, b RankedResult) int {
		switch {
		case a.Relatedness > b.Relatedness:
			return -1
		case a.Relatedness < b.Relatedness:
			return 1
		}
		return 0
	})

	if topN >= 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

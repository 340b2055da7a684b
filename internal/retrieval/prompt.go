// ABOUTME: Greedy, token-budgeted prompt assembly from ranked contract sections
// ABOUTME: Stops at the first section that would overflow the budget
package retrieval

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTokenization is the category for token counting failures
var ErrTokenization = errors.New("tokenization failed")

// DefaultTokenBudget leaves 500 tokens of a 4096-token context for the answer
const DefaultTokenBudget = 4096 - 500

// DefaultDocumentName names the reference document in the introduction
const DefaultDocumentName = "fedex pilot bargaining agreement"

// TokenCounter measures text length in model tokens
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// Introduction returns the fixed instruction that opens every prompt
func Introduction(documentName string) string {
	if strings.TrimSpace(documentName) == "" {
		documentName = DefaultDocumentName
	}
	return fmt.Sprintf(`Use the below definitions from the %s to answer the subsequent question. If the answer cannot be found in the contract, write "I could not find an answer." If additional information is needed from the prompter, say what information is needed.`, documentName)
}

// articleSection formats one ranked chunk as a delimited block
func articleSection(text string) string {
	return "\n\nContract article section:\n\"\"\"\n" + text + "\n\"\"\""
}

// questionSection formats the trailing question
func questionSection(query string) string {
	return "\n\nQuestion: " + query
}

// Assemble concatenates introduction, as many ranked sections as fit in budget,
// and the question. A section is committed only if buffer+section+question
// stays within budget; the first one that does not ends accumulation. The
// question itself is always appended.
func Assemble(introduction, query string, ranked []RankedResult, counter TokenCounter, budget int) (string, error) {
	prompt, _, err := assemble(introduction, query, ranked, counter, budget)
	return prompt, err
}

// assemble is Assemble that also reports how many sections were committed
func assemble(introduction, query string, ranked []RankedResult, counter TokenCounter, budget int) (string, int, error) {
	question := questionSection(query)

	var buf strings.Builder
	buf.WriteString(introduction)

	sections := 0
	for _, r := range ranked {
		next := articleSection(r.Text)
		n, err := counter.CountTokens(buf.String() + next + question)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %w", ErrTokenization, err)
		}
		if n > budget {
			break
		}
		buf.WriteString(next)
		sections++
	}

	buf.WriteString(question)
	return buf.String(), sections, nil
}

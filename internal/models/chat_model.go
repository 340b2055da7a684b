// ABOUTME: Enumerated chat completion models with a lookup table
// ABOUTME: Maps display labels to API identifiers, context windows, and pricing
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownChatModel is returned when a model name matches no known chat model
var ErrUnknownChatModel = errors.New("unknown chat model")

// ChatModel identifies a supported chat completion model
type ChatModel int

const (
	// GPT35Turbo is OpenAI's gpt-3.5-turbo
	GPT35Turbo ChatModel = iota + 1
	// GPT4 is OpenAI's gpt-4
	GPT4
)

// DefaultChatModel is used when no model is configured
const DefaultChatModel = GPT35Turbo

type chatModelInfo struct {
	label         string
	apiName       string
	contextWindow int
	// USD per 1K tokens, from https://openai.com/pricing#language-models
	promptPrice     float64
	completionPrice float64
}

var chatModels = map[ChatModel]chatModelInfo{
	GPT35Turbo: {
		label:           "GPT-3.5",
		apiName:         "gpt-3.5-turbo",
		contextWindow:   4096,
		promptPrice:     0.002,
		completionPrice: 0.002,
	},
	GPT4: {
		label:           "GPT-4",
		apiName:         "gpt-4",
		contextWindow:   8192,
		promptPrice:     0.03,
		completionPrice: 0.06,
	},
}

// ChatModels returns all supported models in display order
func ChatModels() []ChatModel {
	return []ChatModel{GPT35Turbo, GPT4}
}

// ParseChatModel resolves a display label ("GPT-4") or API identifier ("gpt-4")
func ParseChatModel(name string) (ChatModel, error) {
	needle := strings.TrimSpace(name)
	for _, m := range ChatModels() {
		info := chatModels[m]
		if strings.EqualFold(needle, info.label) || strings.EqualFold(needle, info.apiName) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChatModel, name)
}

// Valid reports whether m is a member of the lookup table
func (m ChatModel) Valid() bool {
	_, ok := chatModels[m]
	return ok
}

// String returns the display label
func (m ChatModel) String() string {
	if info, ok := chatModels[m]; ok {
		return info.label
	}
	return fmt.Sprintf("ChatModel(%d)", int(m))
}

// APIName returns the identifier sent to the completion endpoint
func (m ChatModel) APIName() string {
	return chatModels[m].apiName
}

// ContextWindow returns the model's maximum context length in tokens
func (m ChatModel) ContextWindow() int {
	return chatModels[m].contextWindow
}

// Pricing returns USD per 1K prompt and completion tokens
func (m ChatModel) Pricing() (prompt, completion float64) {
	info := chatModels[m]
	return info.promptPrice, info.completionPrice
}

// Next cycles through ChatModels, wrapping at the end
func (m ChatModel) Next() ChatModel {
	all := ChatModels()
	for i, candidate := range all {
		if candidate == m {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Cost returns the USD cost of a completion with the given usage
func (m ChatModel) Cost(usage Usage) float64 {
	info := chatModels[m]
	return (float64(usage.PromptTokens)*info.promptPrice + float64(usage.CompletionTokens)*info.completionPrice) / 1000
}

// MarshalText encodes the model as its display label
func (m ChatModel) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChatModel, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts anything ParseChatModel does
func (m *ChatModel) UnmarshalText(text []byte) error {
	parsed, err := ParseChatModel(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

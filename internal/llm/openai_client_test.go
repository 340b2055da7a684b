// ABOUTME: Tests for the OpenAI client against a local fake API server
// ABOUTME: Covers embedding conversion, chat completion usage mapping, and retry behavior
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/answerbot/internal/models"
)

const chatResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-3.5-turbo",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Section 12 covers it."}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 120, "completion_tokens": 8, "total_tokens": 128}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *OpenAIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	return client
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("expected error for empty API key")
	}

	client, err := NewOpenAIClient("sk-test")
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}
	if client.GetClient() == nil {
		t.Error("GetClient() should not be nil")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("key")
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", cfg.MaxRetries, DefaultMaxRetries)
	}
	if cfg.RetryDelay != DefaultRetryDelay {
		t.Errorf("RetryDelay = %v, want %v", cfg.RetryDelay, DefaultRetryDelay)
	}
}

func TestCreateEmbedding(t *testing.T) {
	var gotModel string
	var gotInput []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s, want /v1/embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}
		gotModel, gotInput = body.Model, body.Input

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}],"model":"text-embedding-ada-002","usage":{"prompt_tokens":3,"total_tokens":3}}`)
	}, 0)

	vec, err := client.CreateEmbedding(context.Background(), "text-embedding-ada-002", "How much vacation?")
	if err != nil {
		t.Fatalf("CreateEmbedding() error = %v", err)
	}

	want := []float64{0.5, -0.25, 1}
	if len(vec) != len(want) {
		t.Fatalf("len = %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}
	if gotModel != "text-embedding-ada-002" {
		t.Errorf("model = %q", gotModel)
	}
	if len(gotInput) != 1 || gotInput[0] != "How much vacation?" {
		t.Errorf("input = %v", gotInput)
	}
}

func TestCreateEmbedding_EmptyData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"object":"list","data":[],"model":"m"}`)
	}, 0)

	_, err := client.CreateEmbedding(context.Background(), "m", "q")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestCreateEmbedding_NoRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}, 3)

	if _, err := client.CreateEmbedding(context.Background(), "m", "q"); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestCreateChatCompletion(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s, want /v1/chat/completions", r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &got); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse)
	}, 0)

	messages := []models.Message{
		{Role: models.RoleSystem, Content: "You answer questions about the fedex pilot contract."},
		{Role: models.RoleUser, Content: "prompt text"},
	}
	completion, err := client.CreateChatCompletion(context.Background(), "gpt-3.5-turbo", messages)
	if err != nil {
		t.Fatalf("CreateChatCompletion() error = %v", err)
	}

	if completion.Content != "Section 12 covers it." {
		t.Errorf("Content = %q", completion.Content)
	}
	wantUsage := models.Usage{PromptTokens: 120, CompletionTokens: 8, TotalTokens: 128}
	if completion.Usage != wantUsage {
		t.Errorf("Usage = %+v, want %+v", completion.Usage, wantUsage)
	}

	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "prompt text" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestCreateChatCompletion_Retries(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		failures  int32
		wantCalls int32
		wantErr   bool
	}{
		{name: "recovers from 500", status: http.StatusInternalServerError, failures: 2, wantCalls: 3},
		{name: "recovers from 429", status: http.StatusTooManyRequests, failures: 1, wantCalls: 2},
		{name: "gives up", status: http.StatusBadGateway, failures: 100, wantCalls: 3, wantErr: true},
		{name: "400 is permanent", status: http.StatusBadRequest, failures: 100, wantCalls: 1, wantErr: true},
		{name: "401 is permanent", status: http.StatusUnauthorized, failures: 100, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if calls.Add(1) <= tt.failures {
					w.WriteHeader(tt.status)
					_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"error"}}`)
					return
				}
				_, _ = io.WriteString(w, chatResponse)
			}, 2)

			_, err := client.CreateChatCompletion(context.Background(), "gpt-4", []models.Message{{Role: models.RoleUser, Content: "q"}})
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestCreateChatCompletion_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[],"usage":{}}`)
	}, 1)

	_, err := client.CreateChatCompletion(context.Background(), "gpt-4", nil)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}

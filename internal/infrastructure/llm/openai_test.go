package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL}, zerolog.Nop())
}

func TestCompleteSendsSystemAndUserMessages(t *testing.T) {
	var got chatRequest
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","choices":[{"message":{"content":"  [{\"name\":\"ok\"}]  "},"finish_reason":"stop"}]}`))
	})

	reply, err := client.Complete(context.Background(), ports.CompletionRequest{
		Instruction: "extract records",
		Input:       "some message",
		Temperature: 0.1,
		JSON:        true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != `[{"name":"ok"}]` {
		t.Errorf("expected trimmed reply, got %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if got.Model != "gpt-4o" {
		t.Errorf("unexpected model %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.Messages[0].Content != "extract records" || got.Messages[1].Content != "some message" {
		t.Errorf("unexpected message content: %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", got.ResponseFormat)
	}
	if got.Temperature != 0.1 {
		t.Errorf("unexpected temperature %v", got.Temperature)
	}
}

func TestCompleteOmitsOptionalFields(t *testing.T) {
	var raw map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"reply"}}]}`))
	})

	if _, err := client.Complete(context.Background(), ports.CompletionRequest{Instruction: "i", Input: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := raw["response_format"]; ok {
		t.Error("response_format should be omitted when JSON is false")
	}
	if _, ok := raw["max_tokens"]; ok {
		t.Error("max_tokens should be omitted when zero")
	}
}

func TestCompleteEmptyChoicesReturnsEmptyReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cmpl-2","choices":[]}`))
	})

	reply, err := client.Complete(context.Background(), ports.CompletionRequest{Instruction: "i", Input: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "" {
		t.Errorf("expected empty reply, got %q", reply)
	}
}

func TestCompleteAPIErrorSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	})

	if _, err := client.Complete(context.Background(), ports.CompletionRequest{Instruction: "i", Input: "x"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestCompleteNonOKStatusReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	if _, err := client.Complete(context.Background(), ports.CompletionRequest{Instruction: "i", Input: "x"}); err == nil {
		t.Fatal("expected an error")
	}
}

package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadq-chatbot-be/pkg/llm"
)

func streamServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			_, _ = w.Write([]byte(line + "\n"))
			flusher.Flush()
		}
	}))
}

func TestChatStreamForwardsTokens(t *testing.T) {
	server := streamServer(t, []string{
		`{"model":"test","message":{"role":"assistant","content":"Lead"},"done":false}`,
		`{"model":"test","message":{"role":"assistant","content":"Q"},"done":false}`,
		`{"model":"test","message":{"role":"assistant","content":""},"done":true}`,
	})
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "test")

	var tokens []string
	err := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "What is LeadQ?"},
	}, func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream returned error: %v", err)
	}

	if len(tokens) != 2 || tokens[0] != "Lead" || tokens[1] != "Q" {
		t.Errorf("tokens = %v, want [Lead Q]", tokens)
	}
}

func TestChatStreamAbortsOnCallbackError(t *testing.T) {
	server := streamServer(t, []string{
		`{"model":"test","message":{"role":"assistant","content":"one"},"done":false}`,
		`{"model":"test","message":{"role":"assistant","content":"two"},"done":false}`,
		`{"model":"test","message":{"role":"assistant","content":""},"done":true}`,
	})
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "test")

	abort := errors.New("client gone")
	calls := 0
	err := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
	}, func(token string) error {
		calls++
		return abort
	})

	if !errors.Is(err, abort) {
		t.Fatalf("ChatStream error = %v, want callback error", err)
	}
	if calls != 1 {
		t.Errorf("callback called %d times after abort, want 1", calls)
	}
}

func TestChatStreamSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "missing")

	err := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
	}, func(token string) error { return nil })
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

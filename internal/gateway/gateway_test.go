package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

// newStubGateway points a Groq provider at a local stub completion server.
func newStubGateway(t *testing.T, timeout time.Duration, handler http.HandlerFunc) *Gateway {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := NewGroqProvider("test-key", ts.URL+"/v1")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return New(p, "persona de teste", Options{
		Model:     "test-model",
		MaxTokens: 250,
		Timeout:   timeout,
	}, zap.NewNop())
}

// echoCountHandler replies with the number of prompt entries it received,
// so tests can verify how the history was bounded.
func echoCountHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	completionReply(w, fmt.Sprintf("recebi %d mensagens", len(req.Messages)))
}

func completionReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "stub",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
}

func makeHistory(n int) []Message {
	history := make([]Message, n)
	for i := range history {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history[i] = Message{Role: role, Content: fmt.Sprintf("mensagem %d", i)}
	}
	return history
}

func TestGetResponseBoundsLongHistory(t *testing.T) {
	g := newStubGateway(t, 5*time.Second, echoCountHandler)

	// 12 stored turns: only the trailing 8 ride along, plus the system
	// prompt and the new user message.
	reply := g.GetResponse(context.Background(), "nova pergunta", makeHistory(12))
	if reply != "recebi 10 mensagens" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestGetResponseKeepsShortHistory(t *testing.T) {
	g := newStubGateway(t, 5*time.Second, echoCountHandler)

	reply := g.GetResponse(context.Background(), "nova pergunta", makeHistory(3))
	if reply != "recebi 5 mensagens" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestGetResponseEmptyHistory(t *testing.T) {
	g := newStubGateway(t, 5*time.Second, echoCountHandler)

	// System prompt + the new message only.
	reply := g.GetResponse(context.Background(), "Qual o preço?", nil)
	if reply != "recebi 2 mensagens" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestGetResponseTimeoutFallback(t *testing.T) {
	g := newStubGateway(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		completionReply(w, "tarde demais")
	})

	reply := g.GetResponse(context.Background(), "oi", nil)
	if reply != TimeoutFallback {
		t.Fatalf("expected timeout fallback, got %q", reply)
	}
}

func TestGetResponseHTTPErrorFallback(t *testing.T) {
	g := newStubGateway(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	reply := g.GetResponse(context.Background(), "oi", nil)
	if reply != GenericFallback {
		t.Fatalf("expected generic fallback, got %q", reply)
	}
}

func TestGetResponseTrimsReply(t *testing.T) {
	g := newStubGateway(t, 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		completionReply(w, "  olá, tudo bem?  \n")
	})

	reply := g.GetResponse(context.Background(), "oi", nil)
	if reply != "olá, tudo bem?" {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
}

func TestProviderRequiresAPIKey(t *testing.T) {
	if _, err := NewGroqProvider("", ""); err == nil {
		t.Fatal("expected error for empty groq key")
	}
	if _, err := NewAnthropicProvider(""); err == nil {
		t.Fatal("expected error for empty anthropic key")
	}
}

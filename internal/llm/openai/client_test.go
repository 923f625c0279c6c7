package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"labreport-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.httpClient = srv.Client()
	c.httpClient.Transport = rewriteTransport{base: srv.Client().Transport, target: srv.URL}
	return c, srv.Close
}

type rewriteTransport struct {
	base   http.RoundTripper
	target string
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method, rt.target, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return rt.base.RoundTrip(redirected)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestCompleteSendsMessagesAndParameters(t *testing.T) {
	var captured chatRequest
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  general feedback  "}},
			},
		})
	})
	defer closeSrv()

	out, err := c.Complete(context.Background(), llm.CompletionInput{
		System:      "You are a helpful medical assistant.",
		User:        "ALB: 4.2",
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "general feedback" {
		t.Fatalf("expected trimmed content, got %q", out)
	}

	if captured.MaxTokens != 500 {
		t.Fatalf("expected max_tokens=500, got %d", captured.MaxTokens)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.3 {
		t.Fatalf("expected temperature=0.3, got %v", captured.Temperature)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded", "type": "insufficient_quota"},
		})
	})
	defer closeSrv()

	_, err := c.Complete(context.Background(), llm.CompletionInput{User: "hello"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	defer closeSrv()

	_, err := c.Complete(context.Background(), llm.CompletionInput{User: "hello"})
	if err == nil || !strings.Contains(err.Error(), "missing choices") {
		t.Fatalf("expected missing choices error, got %v", err)
	}
}

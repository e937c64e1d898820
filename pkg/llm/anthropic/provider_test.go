package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"scad-studio-be/pkg/llm"
)

func newTestProvider(handler http.HandlerFunc) (*AnthropicProvider, *httptest.Server) {
	srv := httptest.NewServer(handler)
	p := NewAnthropicProvider(srv.URL, "test-key", "test-model")
	return p, srv
}

func TestChatSendsMessagesRequest(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotBody map[string]interface{}

	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "hello back"}], "stop_reason": "end_turn"}`))
	})
	defer srv.Close()

	history := []llm.Message{
		{
			Role: llm.RoleUser,
			Content: []llm.Content{
				llm.TextContent("evaluate this"),
				llm.ImageContent([]byte{0x89, 0x50, 0x4e, 0x47}),
			},
		},
	}

	reply, err := p.Chat(context.Background(), history, llm.WithSystem("you are a reviewer"))
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply != "hello back" {
		t.Errorf("reply = %q", reply)
	}
	if gotPath != "/v1/messages" {
		t.Errorf("path = %q, want /v1/messages", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["system"] != "you are a reviewer" {
		t.Errorf("system = %v", gotBody["system"])
	}

	messages := gotBody["messages"].([]interface{})
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	blocks := messages[0].(map[string]interface{})["content"].([]interface{})
	if len(blocks) != 2 {
		t.Fatalf("content blocks = %d, want 2", len(blocks))
	}
	image := blocks[1].(map[string]interface{})
	if image["type"] != "image" {
		t.Errorf("second block type = %v, want image", image["type"])
	}
	source := image["source"].(map[string]interface{})
	if source["media_type"] != "image/png" || source["type"] != "base64" {
		t.Errorf("image source = %v", source)
	}
	if source["data"] != "iVBORw==" {
		t.Errorf("image data = %v, want base64 of PNG magic", source["data"])
	}
}

func TestChatModelOverride(t *testing.T) {
	var gotModel string
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		gotModel, _ = body["model"].(string)
		w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	})
	defer srv.Close()

	_, err := p.Chat(context.Background(), []llm.Message{llm.UserText("hi")}, llm.WithModel("other-model"))
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if gotModel != "other-model" {
		t.Errorf("model = %q, want other-model", gotModel)
	}
}

func TestChatAPIError(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"type": "rate_limit_error"}}`))
	})
	defer srv.Close()

	_, err := p.Chat(context.Background(), []llm.Message{llm.UserText("hi")})
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *llm.APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
	if !apiErr.Transient() {
		t.Error("want transient error")
	}
}

func TestChatEmptyContent(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	})
	defer srv.Close()

	if _, err := p.Chat(context.Background(), []llm.Message{llm.UserText("hi")}); err == nil {
		t.Fatal("expected error for empty content")
	}
}

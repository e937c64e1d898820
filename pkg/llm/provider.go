package llm

import (
	"context"
	"fmt"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content is one block inside a message: either text or an inline PNG image.
// Each block owns its own byte slice; turns are append-only and never mutated
// after being sent.
type Content struct {
	Type  string // "text" | "image"
	Text  string
	Image []byte // PNG bytes when Type == "image"
}

func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

func ImageContent(png []byte) Content {
	return Content{Type: "image", Image: png}
}

// Message represents a conversation turn in a provider-agnostic format.
type Message struct {
	Role    string
	Content []Content
}

func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []Content{TextContent(text)}}
}

func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: []Content{TextContent(text)}}
}

// Option allows for optional parameters like Model, System, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Model       string // Override default model
	System      string // System prompt
	MaxTokens   int
	Temperature float64
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

// Provider defines the contract for any vision-capable LLM backend.
type Provider interface {
	// Chat sends the full conversation history and returns the model's reply text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method).
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// APIError is a failed HTTP call to the model service. The status code lets
// the retry layer classify the failure as transient or fatal.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error: status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the error is worth retrying: rate limits and
// server-side failures are; other API errors are not.
func (e *APIError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

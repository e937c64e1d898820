package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedProvider struct {
	calls   int
	replies []string
	errs    []error
}

func (p *scriptedProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	i := p.calls
	p.calls++
	if i >= len(p.errs) {
		i = len(p.errs) - 1
	}
	return p.replies[i], p.errs[i]
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return p.Chat(ctx, []Message{UserText(prompt)}, opts...)
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func TestChatWithRetryRecoversFromRateLimit(t *testing.T) {
	provider := &scriptedProvider{
		replies: []string{"", "", "ok"},
		errs:    []error{&APIError{StatusCode: 429}, &APIError{StatusCode: 529}, nil},
	}

	reply, err := ChatWithRetry(context.Background(), provider, fastPolicy(), []Message{UserText("hi")})
	if err != nil {
		t.Fatalf("ChatWithRetry returned error: %v", err)
	}
	if reply != "ok" {
		t.Errorf("reply = %q, want ok", reply)
	}
	if provider.calls != 3 {
		t.Errorf("calls = %d, want 3", provider.calls)
	}
}

func TestChatWithRetryDoesNotRetryClientErrors(t *testing.T) {
	provider := &scriptedProvider{
		replies: []string{""},
		errs:    []error{&APIError{StatusCode: 400, Body: "bad request"}},
	}

	_, err := ChatWithRetry(context.Background(), provider, fastPolicy(), []Message{UserText("hi")})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 {
		t.Errorf("err = %v, want wrapped 400 APIError", err)
	}
	if provider.calls != 1 {
		t.Errorf("calls = %d, want 1", provider.calls)
	}
}

func TestChatWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	provider := &scriptedProvider{
		replies: []string{"", "", "", ""},
		errs: []error{
			&APIError{StatusCode: 500},
			&APIError{StatusCode: 500},
			&APIError{StatusCode: 500},
			nil,
		},
	}

	_, err := ChatWithRetry(context.Background(), provider, fastPolicy(), []Message{UserText("hi")})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if provider.calls != 3 {
		t.Errorf("calls = %d, want 3", provider.calls)
	}
}

func TestAPIErrorTransient(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{429, true},
		{500, true},
		{529, true},
		{400, false},
		{401, false},
		{404, false},
	}

	for _, tt := range tests {
		e := &APIError{StatusCode: tt.status}
		if got := e.Transient(); got != tt.want {
			t.Errorf("Transient(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

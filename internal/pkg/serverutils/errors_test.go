package serverutils

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NotFound("missing"), 404},
		{InvalidInput("bad"), 400},
		{InvalidState("converged"), 400},
		{ValidationFailed("syntax", nil), 400},
		{RenderFailed("render", nil), 500},
		{ModelFatal("model", nil), 500},
		{Timeout("slow", nil), 504},
		{&AppError{Kind: KindInternal}, 500},
	}

	for _, tt := range tests {
		if got := tt.err.StatusCode(); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err.Kind, got, tt.want)
		}
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)
	if appErr.Kind != KindInternal {
		t.Errorf("Kind = %v, want KindInternal", appErr.Kind)
	}
	if !errors.Is(appErr, plain) {
		t.Error("wrapped error lost the cause")
	}
}

func TestAsAppErrorPassesThroughWrapped(t *testing.T) {
	inner := NotFound("file not found: %s", "x.scad")
	wrapped := fmt.Errorf("start: %w", inner)
	if got := AsAppError(wrapped); got != inner {
		t.Errorf("AsAppError = %v, want original", got)
	}
}

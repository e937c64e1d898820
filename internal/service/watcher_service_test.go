package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scad-studio-be/internal/dto"
)

func TestWatcherPublishesScadChanges(t *testing.T) {
	dir := t.TempDir()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, FileEventsTopic)
	require.NoError(t, err)

	svc := NewWatcherService(dir, pubSub, noopLogger{})
	go svc.Watch(ctx)

	// Give the watcher a moment to arm before writing.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bracket.scad"), []byte("cube(1);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))

	select {
	case msg := <-messages:
		var event dto.FileChangeEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		msg.Ack()
		assert.Equal(t, "file_change", event.Type)
		assert.Equal(t, "bracket.scad", event.Name)
	case <-time.After(3 * time.Second):
		t.Fatal("no file event published")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "create"},
		{fsnotify.Write, "write"},
		{fsnotify.Remove, "remove"},
		{fsnotify.Rename, "rename"},
		{fsnotify.Chmod, "chmod"},
	}

	for _, tt := range tests {
		if got := opString(tt.op); got != tt.want {
			t.Errorf("opString(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}
